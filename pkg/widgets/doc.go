// Package widgets provides the primitive inputs (text, number, toggle, select,
// list) that the form factory composes under object nodes, plus a registry
// that maps a widget's props onto a presentation kind for renderers.
package widgets
