package form

// FieldWrapper makes one child widget addressable by key. It adds nothing to
// the value: reads and writes go straight to the wrapped widget.
type FieldWrapper struct {
	key   string
	input Widget
}

// Wrap pairs a widget with the key its parent stores it under. input must be
// non-nil.
func Wrap(key string, input Widget) *FieldWrapper {
	return &FieldWrapper{key: key, input: input}
}

// Key returns the property name of the wrapped widget.
func (w *FieldWrapper) Key() string {
	return w.key
}

// Input returns the wrapped widget.
func (w *FieldWrapper) Input() Widget {
	return w.input
}

// Value reads the wrapped widget's current value.
func (w *FieldWrapper) Value() any {
	return w.input.Value()
}

// SetValue forwards value to the wrapped widget.
func (w *FieldWrapper) SetValue(value any) {
	w.input.SetValue(value)
}
