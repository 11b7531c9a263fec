package output

// ggColors is the palette used to color entries in a stack listing, one
// color per position mod len(ggColors), so adjacent entries are visually
// distinct without needing a true N-color scheme.
var ggColors = [][]int{
	{76, 203, 241},  // Light blue
	{77, 202, 125},  // Green
	{110, 173, 38},  // Dark green
	{245, 200, 0},   // Yellow
	{248, 144, 72},  // Orange
	{244, 98, 81},   // Red
	{235, 130, 188}, // Pink
	{159, 131, 228}, // Purple
	{80, 132, 243},  // Blue
}
