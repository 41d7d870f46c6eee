package cliconfig

import "testing"

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "100M", want: 100000000},
		{in: "7.1M", want: 7100000},
		{in: "1.5k", want: 1500},
		{in: "1.5K", want: 1500},
		{in: "2.4G", want: 2400000000},
		{in: "7000000", want: 7000000},
		{in: "145.5MHz", want: 145500000},
		{in: " 10k ", want: 10000},
		{in: "0", want: 0},
		{in: "", wantErr: true},
		{in: "100X", wantErr: true},
		{in: "100MM", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "-5M", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFrequency(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFrequency(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseFrequency(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFrequency_FlagValue(t *testing.T) {
	f := DefaultFrequency
	if f.String() != "100000000" {
		t.Errorf("String() = %q", f.String())
	}
	if f.Type() != "frequency" {
		t.Errorf("Type() = %q", f.Type())
	}
	if err := f.Set("7.1M"); err != nil {
		t.Fatal(err)
	}
	if f.Hz() != 7100000 {
		t.Errorf("Hz() = %d, want 7100000", f.Hz())
	}
	if err := f.Set("bogus"); err == nil {
		t.Error("Set(bogus) succeeded")
	}
	if f.Hz() != 7100000 {
		t.Errorf("failed Set changed value to %d", f.Hz())
	}
}
