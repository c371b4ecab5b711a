package types

// MatrixColor is the heat-map color of a probability x impact cell
type MatrixColor string

const (
	MatrixColorGreen  MatrixColor = "#92D050"
	MatrixColorYellow MatrixColor = "#FFC000"
	MatrixColorOrange MatrixColor = "#F79646"
	MatrixColorRed    MatrixColor = "#C00000"
)

func (c MatrixColor) IsValid() bool {
	switch c {
	case MatrixColorGreen, MatrixColorYellow, MatrixColorOrange, MatrixColorRed:
		return true
	default:
		return false
	}
}

func (c MatrixColor) String() string {
	return string(c)
}

// RGB returns the color components, used by renderers that cannot take hex strings
func (c MatrixColor) RGB() (r, g, b int) {
	switch c {
	case MatrixColorGreen:
		return 0x92, 0xD0, 0x50
	case MatrixColorYellow:
		return 0xFF, 0xC0, 0x00
	case MatrixColorOrange:
		return 0xF7, 0x96, 0x46
	case MatrixColorRed:
		return 0xC0, 0x00, 0x00
	default:
		return 0xFF, 0xFF, 0xFF
	}
}
