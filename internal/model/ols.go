package model

import (
	"fmt"
	"math"
)

// Model predicts a target value from one feature vector.
type Model interface {
	Predict(features []float64) float64
}

// Fitter fits a predictive model from feature rows and a target vector.
// The report pipelines only depend on this interface, so any regression
// implementation can stand in.
type Fitter interface {
	Fit(features [][]float64, target []float64) (Model, error)
}

// LeastSquares fits ordinary least squares with an intercept by solving
// the normal equations.
type LeastSquares struct{}

// LinearModel is a fitted linear predictor.
type LinearModel struct {
	Intercept    float64
	Coefficients []float64
	r2           float64
}

// Predict evaluates the fitted linear function. Feature vectors shorter
// than the coefficient set contribute zero for the missing positions.
func (m *LinearModel) Predict(features []float64) float64 {
	y := m.Intercept
	for i, c := range m.Coefficients {
		if i < len(features) {
			y += c * features[i]
		}
	}
	return y
}

// R2 is the coefficient of determination on the training data.
func (m *LinearModel) R2() float64 { return m.r2 }

// Fit solves the normal equations X'X b = X'y with an intercept column.
// It needs more observations than parameters and fails on singular
// systems (e.g. perfectly collinear features).
func (LeastSquares) Fit(features [][]float64, target []float64) (Model, error) {
	n := len(features)
	if n == 0 || n != len(target) {
		return nil, fmt.Errorf("fit: %d feature rows vs %d targets", n, len(target))
	}
	p := len(features[0])
	for i, row := range features {
		if len(row) != p {
			return nil, fmt.Errorf("fit: row %d has %d features, want %d", i, len(row), p)
		}
	}
	if n <= p {
		return nil, fmt.Errorf("fit: %d observations cannot determine %d parameters", n, p+1)
	}

	// Augmented normal matrix over [1, x1..xp].
	dim := p + 1
	a := make([][]float64, dim)
	for i := range a {
		a[i] = make([]float64, dim+1)
	}
	for r := 0; r < n; r++ {
		row := make([]float64, dim)
		row[0] = 1
		copy(row[1:], features[r])
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				a[i][j] += row[i] * row[j]
			}
			a[i][dim] += row[i] * target[r]
		}
	}

	b, err := solve(a)
	if err != nil {
		return nil, err
	}
	m := &LinearModel{Intercept: b[0], Coefficients: b[1:]}

	// R^2 on the training set.
	var mean float64
	for _, y := range target {
		mean += y
	}
	mean /= float64(n)
	var ssRes, ssTot float64
	for r := 0; r < n; r++ {
		pred := m.Predict(features[r])
		ssRes += (target[r] - pred) * (target[r] - pred)
		ssTot += (target[r] - mean) * (target[r] - mean)
	}
	if ssTot > 0 {
		m.r2 = 1 - ssRes/ssTot
	}
	return m, nil
}

// solve performs Gaussian elimination with partial pivoting on an
// augmented matrix.
func solve(a [][]float64) ([]float64, error) {
	dim := len(a)
	for col := 0; col < dim; col++ {
		pivot := col
		for r := col + 1; r < dim; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("fit: singular system (collinear features)")
		}
		a[col], a[pivot] = a[pivot], a[col]
		for r := col + 1; r < dim; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c <= dim; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}
	x := make([]float64, dim)
	for r := dim - 1; r >= 0; r-- {
		sum := a[r][dim]
		for c := r + 1; c < dim; c++ {
			sum -= a[r][c] * x[c]
		}
		x[r] = sum / a[r][r]
	}
	return x, nil
}
