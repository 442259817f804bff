package pattern

// symmetries holds the 8 transforms of the square's dihedral group, applied
// to a pattern's anchor-relative coordinates so one authored pattern matches
// in every rotation and reflection.
var symmetries = []func(dx, dy int) (int, int){
	func(dx, dy int) (int, int) { return dx, dy },
	func(dx, dy int) (int, int) { return -dy, dx },
	func(dx, dy int) (int, int) { return -dx, -dy },
	func(dx, dy int) (int, int) { return dy, -dx },
	func(dx, dy int) (int, int) { return -dx, dy },
	func(dx, dy int) (int, int) { return dy, dx },
	func(dx, dy int) (int, int) { return dx, -dy },
	func(dx, dy int) (int, int) { return -dy, -dx },
}

// compileVariants produces one compiled dfa chain per symmetry of p, anchored
// at p's own center cell. Duplicate chains arising from a symmetric pattern
// (e.g. one glyph repeated on every axis) are kept rather than deduplicated;
// they simply cost one redundant match attempt.
func compileVariants(p *Pattern) []*dfa {
	cx, cy := p.Width/2, p.Height/2

	var base []relCell
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			base = append(base, relCell{dx: x - cx, dy: y - cy, glyph: p.glyphAt(x, y)})
		}
	}

	variants := make([]*dfa, len(symmetries))
	for i, sym := range symmetries {
		cells := make([]relCell, len(base))
		for j, rc := range base {
			dx, dy := sym(rc.dx, rc.dy)
			cells[j] = relCell{dx: dx, dy: dy, glyph: rc.glyph}
		}
		variants[i] = compile(cells)
	}
	return variants
}
