package game

import "fmt"

// OrderKind tags the variant carried by an Order.
type OrderKind int

const (
	UnknownOrder OrderKind = iota
	Hold
	MoveTo
	Support       // support a unit holding in place
	SupportMoveTo // support a unit moving to Dest
)

func (k OrderKind) String() string {
	switch k {
	case Hold:
		return "HLD"
	case MoveTo:
		return "MTO"
	case Support:
		return "SUP"
	case SupportMoveTo:
		return "SUPMTO"
	default:
		return fmt.Sprintf("OrderKind(%d)", int(k))
	}
}

// ParseOrderKind maps HLD, MTO, SUP or SUPMTO back to its OrderKind.
func ParseOrderKind(name string) (OrderKind, error) {
	for _, k := range []OrderKind{Hold, MoveTo, Support, SupportMoveTo} {
		if k.String() == name {
			return k, nil
		}
	}
	return UnknownOrder, fmt.Errorf("unknown order kind %q", name)
}

// Order is an immutable order for a single unit. The fields used depend on Kind:
//
//	Hold:          Power, Unit
//	MoveTo:        Power, Unit, Dest
//	Support:       Power, Unit, SupportedPower, SupportedUnit
//	SupportMoveTo: Power, Unit, SupportedPower, SupportedUnit, Dest
//
// A supported order is stored by value so orders never point at each other.
type Order struct {
	Kind           OrderKind
	Power          Power
	Unit           Territory
	Dest           Territory
	SupportedPower Power
	SupportedUnit  Territory
}

func NewHold(power Power, unit Territory) Order {
	return Order{Kind: Hold, Power: power, Unit: unit}
}

func NewMove(power Power, unit, dest Territory) Order {
	return Order{Kind: MoveTo, Power: power, Unit: unit, Dest: dest}
}

// NewSupport orders the unit at unit to support supported's unit holding in place.
func NewSupport(power Power, unit Territory, supported Order) Order {
	return Order{
		Kind:           Support,
		Power:          power,
		Unit:           unit,
		SupportedPower: supported.Power,
		SupportedUnit:  supported.Unit,
	}
}

// NewSupportMove orders the unit at unit to support the move described by supported.
func NewSupportMove(power Power, unit Territory, supported Order) Order {
	return Order{
		Kind:           SupportMoveTo,
		Power:          power,
		Unit:           unit,
		Dest:           supported.Dest,
		SupportedPower: supported.Power,
		SupportedUnit:  supported.Unit,
	}
}

// Supported rebuilds the order being supported, if any.
func (o Order) Supported() (Order, bool) {
	switch o.Kind {
	case Support:
		return NewHold(o.SupportedPower, o.SupportedUnit), true
	case SupportMoveTo:
		return NewMove(o.SupportedPower, o.SupportedUnit, o.Dest), true
	default:
		return Order{}, false
	}
}

// Destination is the territory the ordered unit occupies once the order succeeds.
func (o Order) Destination() Territory {
	if o.Kind == MoveTo {
		return o.Dest
	}
	return o.Unit
}

// IsWellFormed reports whether the order is one of the four recognised variants
// and carries the fields that variant needs.
func (o Order) IsWellFormed() bool {
	if o.Power == "" || o.Unit == "" {
		return false
	}
	switch o.Kind {
	case Hold:
		return true
	case MoveTo:
		return o.Dest != "" && o.Dest != o.Unit
	case Support:
		return o.SupportedPower != "" && o.SupportedUnit != "" && o.SupportedUnit != o.Unit
	case SupportMoveTo:
		return o.SupportedPower != "" && o.SupportedUnit != "" && o.Dest != "" &&
			o.SupportedUnit != o.Unit && o.Dest != o.Unit
	default:
		return false
	}
}

func (o Order) String() string {
	switch o.Kind {
	case Hold:
		return fmt.Sprintf("%s %s HLD", o.Power, o.Unit)
	case MoveTo:
		return fmt.Sprintf("%s %s MTO %s", o.Power, o.Unit, o.Dest)
	case Support:
		return fmt.Sprintf("%s %s SUP %s %s", o.Power, o.Unit, o.SupportedPower, o.SupportedUnit)
	case SupportMoveTo:
		return fmt.Sprintf("%s %s SUP %s %s MTO %s", o.Power, o.Unit, o.SupportedPower, o.SupportedUnit, o.Dest)
	default:
		return fmt.Sprintf("%s %s %s", o.Power, o.Unit, o.Kind)
	}
}
