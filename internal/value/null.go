package value

// NullData is the typeless NULL singleton value. It is always NULL;
// SetNull and Assign from NULL are no-ops, assigning anything else is
// not possible.
type NullData struct{}

var theNull = &NullData{}

// NewNull returns the shared NULL instance.
func NewNull() *NullData { return theNull }

func (d *NullData) Type() Type        { return TypeNull }
func (d *NullData) ElementType() Type { return TypeUndefined }
func (d *NullData) ClassID() int32    { return ClassNullData }
func (d *NullData) IsNull() bool      { return true }
func (d *NullData) SetNull()          {}

func (d *NullData) Assign(src Data) error {
	if src.IsNull() {
		return nil
	}
	return errNotCompatible(d, src)
}

func (d *NullData) Copy() Data { return theNull }

func (d *NullData) Compare(other Data) int {
	if other.IsNull() {
		return 0
	}
	return 1
}

func (d *NullData) Equals(other Data) bool { return other.IsNull() }
func (d *NullData) Hash() uint32           { return nullHash }
func (d *NullData) String() string         { return "(null)" }

func (d *NullData) Serialize(a *Archive) error { return a.Err() }
