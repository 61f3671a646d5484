package cli

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/punchlog/internal/domain"
)

// positionValue is a pflag.Value that rejects unknown position codes at
// parse time, before any service call.
type positionValue struct {
	pos *domain.Position
}

var _ pflag.Value = positionValue{}

func newPositionValue(pos *domain.Position) positionValue {
	return positionValue{pos: pos}
}

func (v positionValue) String() string {
	if v.pos == nil {
		return ""
	}
	return string(*v.pos)
}

func (v positionValue) Set(s string) error {
	if s != "" && !domain.ValidPositions[s] {
		return fmt.Errorf("invalid position %q (expected O, R, H, C or M)", s)
	}
	*v.pos = domain.Position(s)
	return nil
}

func (v positionValue) Type() string {
	return "position"
}
