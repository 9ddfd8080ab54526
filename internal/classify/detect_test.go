package classify

import "testing"

func TestDetectPO(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"P.O. # 4500123\nSHIP DATE", "4500123", true},
		{"REMIT TO PO BOX 12\nPO: 778812", "778812", true},
		{"PURCHASE ORDER NO. A-1234", "A-1234", true},
		{"CUSTOMER PO#ab7731", "AB7731", true},
		{"NET 4,210 POUNDS", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := DetectPO(tt.text)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("DetectPO(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDetectWarehouse(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"SHIP TO: ACME STEEL\nHOUSTON, TX 77029", "HOU", true},
		{"ship to los  angeles, ca", "LAX", true},
		{"CHICAGO IL then ATLANTA GA", "CHI", true},
		{"DALLAS, TX", "", false},
	}
	for _, tt := range tests {
		got, ok := DetectWarehouse(tt.text)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("DetectWarehouse(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}
