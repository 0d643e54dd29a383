package composition

import (
	"math"
	"testing"
)

func TestFromCounts(t *testing.T) {
	tests := []struct {
		name    string
		counts  map[string]int
		want    Vector
		wantErr bool
	}{
		{
			name:   "quadrat point counts",
			counts: map[string]int{"grass": 6, "sand": 3, "dead": 1},
			want:   Vector{"grass": 0.6, "sand": 0.3, "dead": 0.1},
		},
		{
			name:   "single class",
			counts: map[string]int{"sand": 25},
			want:   Vector{"sand": 1.0},
		},
		{
			name:    "all zero counts",
			counts:  map[string]int{"grass": 0, "sand": 0},
			wantErr: true,
		},
		{
			name:    "negative count",
			counts:  map[string]int{"grass": -1, "sand": 2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromCounts(tt.counts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromCounts() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			for class, frac := range tt.want {
				if math.Abs(got[class]-frac) > 1e-12 {
					t.Errorf("FromCounts()[%s] = %v, want %v", class, got[class], frac)
				}
			}
			if !got.CloseToOne(1e-9) {
				t.Errorf("FromCounts() sum = %v, want 1", got.Sum())
			}
		})
	}
}

func TestVectorClasses(t *testing.T) {
	v := Vector{"sand": 0.3, "grass": 0.6, "dead": 0.1}
	classes := v.Classes()
	want := []string{"dead", "grass", "sand"}
	if len(classes) != len(want) {
		t.Fatalf("Classes() = %v, want %v", classes, want)
	}
	for i := range want {
		if classes[i] != want[i] {
			t.Errorf("Classes()[%d] = %s, want %s", i, classes[i], want[i])
		}
	}
}

func TestSameClasses(t *testing.T) {
	a := Vector{"grass": 0.6, "sand": 0.4}
	b := Vector{"grass": 0.2, "sand": 0.8}
	c := Vector{"grass": 0.2, "dead": 0.8}
	d := Vector{"grass": 0.2, "sand": 0.5, "dead": 0.3}

	if !a.SameClasses(b) {
		t.Error("SameClasses() = false for identical class sets")
	}
	if a.SameClasses(c) {
		t.Error("SameClasses() = true for differing class names")
	}
	if a.SameClasses(d) {
		t.Error("SameClasses() = true for differing sizes")
	}
}

func TestNormalize(t *testing.T) {
	v := Vector{"grass": 2, "sand": 1, "dead": 1}
	n, err := v.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if math.Abs(n["grass"]-0.5) > 1e-12 {
		t.Errorf("Normalize()[grass] = %v, want 0.5", n["grass"])
	}
	if !n.CloseToOne(1e-12) {
		t.Errorf("Normalize() sum = %v, want 1", n.Sum())
	}

	if _, err := (Vector{"grass": 0}).Normalize(); err == nil {
		t.Error("Normalize() on zero-sum vector expected error")
	}
}

func TestDominant(t *testing.T) {
	if got := (Vector{"grass": 0.6, "sand": 0.3, "dead": 0.1}).Dominant(); got != "grass" {
		t.Errorf("Dominant() = %s, want grass", got)
	}
	// Ties break to the lexicographically smaller class.
	if got := (Vector{"sand": 0.5, "dead": 0.5}).Dominant(); got != "dead" {
		t.Errorf("Dominant() tie = %s, want dead", got)
	}
}
