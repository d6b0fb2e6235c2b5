package blob

// Layout is the axis-ordering convention of a tensor.
// Blobs carry it but never interpret it.
type Layout int

// Supported layouts.
const (
	ANY Layout = iota
	C
	CN
	HW
	NC
	CHW
	NCHW
	NHWC
	NCDHW
	NDHWC
	OIHW
	SCALAR
	BLOCKED
)

// String returns the conventional name of the layout.
func (l Layout) String() string {
	switch l {
	case ANY:
		return "ANY"
	case C:
		return "C"
	case CN:
		return "CN"
	case HW:
		return "HW"
	case NC:
		return "NC"
	case CHW:
		return "CHW"
	case NCHW:
		return "NCHW"
	case NHWC:
		return "NHWC"
	case NCDHW:
		return "NCDHW"
	case NDHWC:
		return "NDHWC"
	case OIHW:
		return "OIHW"
	case SCALAR:
		return "SCALAR"
	case BLOCKED:
		return "BLOCKED"
	default:
		return "UNKNOWN"
	}
}
