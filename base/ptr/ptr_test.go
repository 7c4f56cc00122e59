package ptr

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type pointerSuite struct {
	suite.Suite
}

func (s *pointerSuite) TestPointer() {
	p1 := String(`abc123`)
	p2 := Int(123)
	p3 := Decimal(decimal.RequireFromString("1.25"))

	s.Equal(*p1, `abc123`)
	s.Equal(*p2, int(123))
	s.Equal("1.25", p3.String())
}

func (s *pointerSuite) TestDistinct() {
	d := decimal.NewFromInt(1)
	p := Decimal(d)
	d = d.Add(decimal.NewFromInt(1))
	s.Equal("1", p.String())
}

func TestPointerSuite(t *testing.T) {
	suite.Run(t, new(pointerSuite))
}
