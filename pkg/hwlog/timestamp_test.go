package hwlog

import "testing"

func TestDetectTimeLayout(t *testing.T) {
	tests := []struct {
		name    string
		samples []string
		want    string
		wantErr bool
	}{
		{
			name:    "time of day",
			samples: []string{"10:00:00", "10:00:01", "10:00:02"},
			want:    "15:04:05",
		},
		{
			name:    "time of day with milliseconds",
			samples: []string{"10:00:00.123", "10:00:01.456"},
			want:    "15:04:05.000",
		},
		{
			name:    "iso date and time",
			samples: []string{"2024-01-15 10:00:00", "2024-01-15 10:00:01"},
			want:    "2006-01-02 15:04:05",
		},
		{
			name:    "dotted day-first",
			samples: []string{"15.1.2024 10:00:00", "15.1.2024 10:00:01"},
			want:    "2.1.2006 15:04:05",
		},
		{
			name:    "majority wins over stray cells",
			samples: []string{"10:00:00", "bogus", "10:00:01", "10:00:02"},
			want:    "15:04:05",
		},
		{
			name:    "nothing matches",
			samples: []string{"one", "two"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := detectTimeLayout(tt.samples)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("detectTimeLayout() = %v, want error", layout)
				}
				return
			}
			if err != nil {
				t.Fatalf("detectTimeLayout() error = %v", err)
			}
			if layout.Layout != tt.want {
				t.Errorf("Layout = %q, want %q", layout.Layout, tt.want)
			}
		})
	}
}

func TestDefaultTimeLayouts_ExamplesParse(t *testing.T) {
	for _, l := range DefaultTimeLayouts() {
		for _, example := range l.Examples {
			if !l.Pattern.MatchString(example) {
				t.Errorf("%s: example %q does not match its own pattern", l.Name, example)
			}
		}
	}
}
