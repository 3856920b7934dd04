package types

import "fmt"

// LotSize is the minimum quantity increment.
const LotSize uint32 = 1

// Quantity is a lot-indexed resting or incoming order size.
type Quantity uint32

// Valid reports whether q is a positive multiple of LotSize.
func (q Quantity) Valid() bool {
	return q%Quantity(LotSize) == 0 && q > 0
}

func (q Quantity) String() string {
	return fmt.Sprintf("%d", uint32(q))
}
