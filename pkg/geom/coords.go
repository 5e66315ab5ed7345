package geom

// ComputeCoords returns the top-left corner of a floating box of the given
// size attached to reference under placement p, with no additional offset.
func ComputeCoords(p Placement, reference Rect, floating Size) Coords {
	commonX := reference.X + reference.Width/2 - floating.Width/2
	commonY := reference.Y + reference.Height/2 - floating.Height/2

	var c Coords
	switch p.Side() {
	case Top:
		c = Coords{X: commonX, Y: reference.Y - floating.Height}
	case Bottom:
		c = Coords{X: commonX, Y: reference.Bottom()}
	case Right:
		c = Coords{X: reference.Right(), Y: commonY}
	case Left:
		c = Coords{X: reference.X - floating.Width, Y: commonY}
	default:
		c = Coords{X: reference.X, Y: reference.Y}
	}

	var commonAlign float64
	if p.CrossAxis() == AxisX {
		commonAlign = reference.Width/2 - floating.Width/2
	} else {
		commonAlign = reference.Height/2 - floating.Height/2
	}

	switch p.Alignment() {
	case AlignStart:
		c = c.Add(p.CrossAxis(), -commonAlign)
	case AlignEnd:
		c = c.Add(p.CrossAxis(), commonAlign)
	}
	return c
}

// ProjectRect returns the box the floating element occupies under placement p.
func ProjectRect(p Placement, reference Rect, floating Size) Rect {
	return At(ComputeCoords(p, reference, floating), floating)
}

// Get returns the coordinate along axis a.
func (c Coords) Get(a Axis) float64 {
	if a == AxisX {
		return c.X
	}
	return c.Y
}

// Set returns c with the coordinate along axis a replaced by v.
func (c Coords) Set(a Axis, v float64) Coords {
	if a == AxisX {
		c.X = v
	} else {
		c.Y = v
	}
	return c
}

// Add returns c moved by d along axis a.
func (c Coords) Add(a Axis, d float64) Coords {
	return c.Set(a, c.Get(a)+d)
}

// Length returns the size's extent along axis a.
func (s Size) Length(a Axis) float64 {
	if a == AxisX {
		return s.Width
	}
	return s.Height
}
