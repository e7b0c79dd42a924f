// Package sqlobj holds the table/column model shown on the diagram.
//
// Tables own an ordered list of columns and notify registered listeners of
// structural and property changes. Mutation goes through Table methods only;
// every mutating call either applies completely or returns a *ModelError and
// leaves the table untouched.
package sqlobj
