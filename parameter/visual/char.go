package visual

// QuadrantChars maps a 2x2 sub-cell bitmap to a block glyph
// Bit layout: bit0=UL, bit1=UR, bit2=LL, bit3=LR
//
//	[UL][UR]
//	[LL][LR]
var QuadrantChars = [16]rune{
	' ', // 0000
	'▘', // 0001
	'▝', // 0010
	'▀', // 0011
	'▖', // 0100
	'▌', // 0101
	'▞', // 0110
	'▛', // 0111
	'▗', // 1000
	'▚', // 1001
	'▐', // 1010
	'▜', // 1011
	'▄', // 1100
	'▙', // 1101
	'▟', // 1110
	'█', // 1111
}
