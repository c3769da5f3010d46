package core

import "testing"

func TestSplitNameList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"semicolons", "Jane Austen; Mark Twain", []string{"Jane Austen", "Mark Twain"}},
		{"commas", "Jane Austen, Mark Twain", []string{"Jane Austen", "Mark Twain"}},
		{"ampersand", "Jane Austen & Mark Twain", []string{"Jane Austen", "Mark Twain"}},
		{"word and", "Jane Austen and Mark Twain", []string{"Jane Austen", "Mark Twain"}},
		{"newlines", "Jane Austen\nMark Twain", []string{"Jane Austen", "Mark Twain"}},
		{"single", "Jane Austen", []string{"Jane Austen"}},
		{"empty pieces dropped", "; Jane Austen ;;", []string{"Jane Austen"}},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitNameList(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitNameList(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("part[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitTitleList(t *testing.T) {
	// "and" and "&" stay intact inside titles.
	got := SplitTitleList("War and Peace, Pride & Prejudice; Emma")
	want := []string{"War and Peace", "Pride & Prejudice", "Emma"}
	if len(got) != len(want) {
		t.Fatalf("SplitTitleList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("part[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParsePersonName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLast  string
		wantFirst string
	}{
		{"comma form", "Austen, Jane", "Austen", "Jane"},
		{"first last", "Jane Austen", "Austen", "Jane"},
		{"middle name", "Jane Marie Austen", "Austen", "Jane Marie"},
		{"single token", "Plato", "Plato", ""},
		{"empty", "", "", ""},
		{"padded comma form", "  Austen ,  Jane  ", "Austen", "Jane"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last, first := ParsePersonName(tt.input)
			if last != tt.wantLast || first != tt.wantFirst {
				t.Errorf("ParsePersonName(%q) = (%q, %q), want (%q, %q)",
					tt.input, last, first, tt.wantLast, tt.wantFirst)
			}
		})
	}
}

func TestPaymentMethodAliases(t *testing.T) {
	if paymentMethods["credit card"] != "credit" {
		t.Error("display name should map to the stored payment method")
	}
	if _, ok := paymentMethods["bitcoin"]; ok {
		t.Error("unknown payment methods must not resolve")
	}
}

func TestOrderStatusAliases(t *testing.T) {
	tests := map[string]string{
		"to be shipped":         "to_ship",
		"customer will pick up": "pickup",
		"picked up":             "picked_up",
		"shipped":               "shipped",
	}
	for alias, want := range tests {
		if got := orderStatuses[alias]; got != want {
			t.Errorf("orderStatuses[%q] = %q, want %q", alias, got, want)
		}
	}
}
