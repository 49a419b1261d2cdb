package tags

// Update is one patch field. The zero value leaves the current value alone;
// Set replaces it and Clear removes it.
type Update[T any] struct {
	state uint8 // 0 untouched, 1 set, 2 clear
	value T
}

func Set[T any](v T) Update[T] { return Update[T]{state: 1, value: v} }

func Clear[T any]() Update[T] { return Update[T]{state: 2} }

// SetPtr maps a nil pointer to Clear and anything else to Set.
func SetPtr[T any](v *T) Update[T] {
	if v == nil {
		return Clear[T]()
	}
	return Set(*v)
}

func (u Update[T]) IsSet() bool     { return u.state == 1 }
func (u Update[T]) IsCleared() bool { return u.state == 2 }
func (u Update[T]) Touched() bool   { return u.state != 0 }

// Value returns the value carried by Set.
func (u Update[T]) Value() T { return u.value }

// Apply resolves the field against its current value.
func (u Update[T]) Apply(cur *T) *T {
	switch u.state {
	case 1:
		v := u.value
		return &v
	case 2:
		return nil
	default:
		return cur
	}
}
