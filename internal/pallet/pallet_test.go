package pallet

import "testing"

func TestEqualityIsTypeSensitive(t *testing.T) {
	if NewInt(1).Equal(NewFloat(1.0)) {
		t.Error("Int(1) should not equal Float(1.0)")
	}
	if !NewInt(1).Equal(NewInt(1)) {
		t.Error("Int(1) should equal Int(1)")
	}
	if NewString("a").Equal(NewChar('a')) {
		t.Error("String(\"a\") should not equal Char('a')")
	}
	if !NewEmpty().Equal(NewEmpty()) {
		t.Error("Empty should equal Empty")
	}
}

func TestDisplay(t *testing.T) {
	cases := []struct {
		p    Pallet
		want string
	}{
		{NewEmpty(), "Pallet< >"},
		{NewBool(true), "Pallet<b:true>"},
		{NewBool(false), "Pallet<b:false>"},
		{NewChar('x'), "Pallet<c:'x'>"},
		{NewString("hi"), `Pallet<s:"hi">`},
		{NewInt(42), "Pallet<i:42>"},
		{NewFloat(1.5), "Pallet<f:1.5>"},
	}
	for _, c := range cases {
		if got := c.p.Display(); got != c.want {
			t.Errorf("Display() = %q, want %q", got, c.want)
		}
	}
}

func TestAccessorsReportWrongKind(t *testing.T) {
	if _, ok := NewInt(3).Float(); ok {
		t.Error("Float() should report false for an Int pallet")
	}
	if v, ok := NewInt(3).Int(); !ok || v != 3 {
		t.Error("Int() should report true and the value for an Int pallet")
	}
}
