// Package form builds a tree of form nodes from a schema.Node tree.
//
// Object-typed schema levels become *Object composites; every other level is
// handed to a primitive widget constructor registered on the Factory. Each
// child is wrapped in a FieldWrapper so a parent can read and write all of its
// children through the same Value/SetValue contract, whatever the widget.
//
// Values flow bottom-up on read (Object.Value assembles a map from its
// children) and top-down on write (Object.SetValue distributes a map). An
// optional object starts excluded, reads as nil, and only instantiates its
// children once it is toggled in.
//
// A form tree is owned by a single goroutine; nothing in this package locks.
package form
