package cava

// RawRecord mirrors struct audio_raw field for field. Its layout is checked
// against the C declaration at compile time and in tests, so a pointer to the
// C record can be read through it directly.
type RawRecord struct {
	Bars            *int32
	PreviousFrame   *int32
	BarsLeft        *float32
	BarsRight       *float32
	BarsRaw         *float32
	PreviousBarsRaw *float32
	Out             *float64
	DimensionBar    *int32
	DimensionValue  *int32
	EQKeysRatio     float64
	Channels        int32
	NumberOfBars    int32
	OutputChannels  int32
	Height          int32
	Lines           int32
	Width           int32
	Remainder       int32
}

// rawFieldNames lists the C field names in declaration order.
var rawFieldNames = [...]string{
	"bars",
	"previous_frame",
	"bars_left",
	"bars_right",
	"bars_raw",
	"previous_bars_raw",
	"cava_out",
	"dimension_bar",
	"dimension_value",
	"userEQ_keys_to_bars_ratio",
	"channels",
	"number_of_bars",
	"output_channels",
	"height",
	"lines",
	"width",
	"remainder",
}
