package panel

// Optional is a value that is either present or absent. Panels use it for
// sections that are only shown when a collaborator supplies the data.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an absent value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Present reports whether a value is held.
func (o Optional[T]) Present() bool { return o.ok }

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) { return o.value, o.ok }

// Match renders o with present or absent; exactly one of them is called.
func Match[T any](o Optional[T], present func(T) string, absent func() string) string {
	if o.ok {
		return present(o.value)
	}
	return absent()
}
