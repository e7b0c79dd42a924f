// Package ui is the playpen terminal interface: a catalog of database tables
// on the left and a diagram of table panes on the right.
//
// Core abstractions:
//   - View: A screen or major UI region with its own model, update, view (Elm-style)
//   - Panel: A bounded region within a layout that hosts a View
//   - PanelLayout: Arranges panels and defines focus order
//   - FocusManager: Tracks and rotates focus across panels
//   - Overlay: Modal views drawn over the panels, with a dismiss key
//   - TablePane: One table on the diagram, kept in sync with its model
//   - Delegate: Draws a pane and maps points on it to logical positions
//
// A pane accepts drops through its dnd.DropCoordinator. Drags that start on
// a pane are classified by DragOriginClassifier.
package ui
