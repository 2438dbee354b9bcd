package chart

// palette is the fixed trace color cycle. Repeated runs on the same log
// must produce visually identical charts, so colors derive from position,
// never from randomness or map iteration.
var palette = []string{
	"#5470c6",
	"#91cc75",
	"#fac858",
	"#ee6666",
	"#73c0de",
	"#3ba272",
	"#fc8452",
	"#9a60b4",
	"#ea7ccc",
	"#2f4554",
	"#61a0a8",
	"#d48265",
}

// ColorAt returns the palette color for a trace's position within its panel.
func ColorAt(i int) string {
	return palette[i%len(palette)]
}
