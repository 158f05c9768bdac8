package landscape

import "math"

const (
	KindGaussian = "gaussian"
	KindDipole   = "dipole"
	KindFault    = "fault"
	KindGradient = "gradient"
)

// Anomaly is a localized or regional perturbation of the background field.
// The set of implementations is closed.
type Anomaly interface {
	Kind() string
	Perturbation(x, y float64) Vector3
	sealed()
}

// Gaussian is a radial horizontal anomaly with a Gaussian envelope,
// truncated beyond three radii.
type Gaussian struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Strength float64 `json:"strength"`
	Radius   float64 `json:"radius"`
}

func (Gaussian) Kind() string { return KindGaussian }
func (Gaussian) sealed()      {}

func (g Gaussian) Perturbation(x, y float64) Vector3 {
	dx := x - g.X
	dy := y - g.Y
	r := math.Hypot(dx, dy)
	if r >= 3*g.Radius {
		return Vector3{}
	}
	if r < 1e-6 {
		return Vector3{}
	}
	ratio := r / g.Radius
	envelope := g.Strength * math.Exp(-0.5*ratio*ratio)
	return Vector3{X: envelope * dx / r, Y: envelope * dy / r}
}

// Dipole is a buried vertical point dipole at the given depth.
type Dipole struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Strength float64 `json:"strength"`
	Depth    float64 `json:"depth"`
}

func (Dipole) Kind() string { return KindDipole }
func (Dipole) sealed()      {}

// dipoleNorm rescales strength so that it is the peak horizontal
// perturbation, reached at rho = depth/2.
var dipoleNorm = math.Pow(5, 2.5) / 48

func (d Dipole) Perturbation(x, y float64) Vector3 {
	dx := x - d.X
	dy := y - d.Y
	rho2 := dx*dx + dy*dy
	depth2 := d.Depth * d.Depth
	r5 := math.Pow(rho2+depth2, 2.5)
	alpha := d.Strength * dipoleNorm * depth2 * d.Depth
	return Vector3{
		X: alpha * 3 * d.Depth * dx / r5,
		Y: alpha * 3 * d.Depth * dy / r5,
		Z: alpha * (2*depth2 - rho2) / r5,
	}
}

// Fault is a linear tanh step in the horizontal field across a strike line
// through (X, Y) at Azimuth.
type Fault struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Azimuth  float64 `json:"azimuth"`
	Contrast float64 `json:"contrast"`
	Width    float64 `json:"width"`
}

func (Fault) Kind() string { return KindFault }
func (Fault) sealed()      {}

func (f Fault) Perturbation(x, y float64) Vector3 {
	sinAz, cosAz := math.Sincos(f.Azimuth)
	perp := (x-f.X)*sinAz - (y-f.Y)*cosAz
	p := math.Tanh(perp / f.Width)
	half := f.Contrast / 2
	return Vector3{X: half * p * sinAz, Y: -half * p * cosAz}
}

// Gradient is a regional linear ramp along Direction, zero at the
// reference point.
type Gradient struct {
	Magnitude float64 `json:"magnitude"`
	Direction float64 `json:"direction"`
	RefX      float64 `json:"ref_x"`
	RefY      float64 `json:"ref_y"`
}

func (Gradient) Kind() string { return KindGradient }
func (Gradient) sealed()      {}

func (g Gradient) Perturbation(x, y float64) Vector3 {
	sinDir, cosDir := math.Sincos(g.Direction)
	s := (x-g.RefX)*cosDir + (y-g.RefY)*sinDir
	return Vector3{X: g.Magnitude * s * cosDir, Y: g.Magnitude * s * sinDir}
}
