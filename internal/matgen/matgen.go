// Package matgen builds the dense demonstration matrices and starting
// vectors used by the CLI, the HTTP API and the test suites. Triangular
// matrices are the workhorse here: their eigenvalues are exactly the diagonal
// entries, which makes the spectrum of a generated matrix fully prescribed.
package matgen

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// UpperTriangular builds an n×n upper-triangular matrix with the given
// diagonal and the given strictly-upper entries, laid out row by row
// (row 0 columns 1..n-1, then row 1 columns 2..n-1, and so on). The
// eigenvalues of the result are exactly the diagonal entries.
//
// Parameters:
//   - diag: The diagonal entries; len(diag) fixes the dimension n.
//   - upper: The strictly-upper entries; must hold exactly n(n-1)/2 values.
//
// Returns:
//   - *mat.Dense: The assembled matrix.
//   - error: An error when the entry counts do not match.
func UpperTriangular(diag, upper []float64) (*mat.Dense, error) {
	n := len(diag)
	if n == 0 {
		return nil, fmt.Errorf("matgen: diagonal must not be empty")
	}
	if want := n * (n - 1) / 2; len(upper) != want {
		return nil, fmt.Errorf("matgen: got %d strictly-upper entries, want %d for dimension %d", len(upper), want, n)
	}
	a := mat.NewDense(n, n, nil)
	idx := 0
	for i := 0; i < n; i++ {
		a.Set(i, i, diag[i])
		for j := i + 1; j < n; j++ {
			a.Set(i, j, upper[idx])
			idx++
		}
	}
	return a, nil
}

// RandomUpperTriangular builds an upper-triangular matrix with the given
// diagonal and strictly-upper entries drawn uniformly from [-spread, spread]
// using a deterministic seed. The spectrum is still exactly diag.
//
// Parameters:
//   - diag: The diagonal entries; len(diag) fixes the dimension.
//   - spread: The half-width of the uniform distribution for upper entries.
//   - seed: The RNG seed, so generated matrices are reproducible.
//
// Returns:
//   - *mat.Dense: The assembled matrix.
//   - error: An error when diag is empty.
func RandomUpperTriangular(diag []float64, spread float64, seed int64) (*mat.Dense, error) {
	n := len(diag)
	if n == 0 {
		return nil, fmt.Errorf("matgen: diagonal must not be empty")
	}
	rng := rand.New(rand.NewSource(seed))
	upper := make([]float64, n*(n-1)/2)
	for i := range upper {
		upper[i] = (2*rng.Float64() - 1) * spread
	}
	return UpperTriangular(diag, upper)
}

// Diagonal builds a diagonal matrix with the given entries.
func Diagonal(diag []float64) *mat.Dense {
	n := len(diag)
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		a.Set(i, i, diag[i])
	}
	return a
}

// Ones returns the length-n vector of all ones, the conventional starting
// vector for the demonstration runs.
func Ones(n int) *mat.VecDense {
	data := make([]float64, n)
	for i := range data {
		data[i] = 1
	}
	return mat.NewVecDense(n, data)
}

// Basis returns the i-th standard basis vector of length n.
//
// Parameters:
//   - n: The vector length.
//   - i: The index of the unit entry.
//
// Returns:
//   - *mat.VecDense: The basis vector.
//   - error: An error when i is out of range.
func Basis(n, i int) (*mat.VecDense, error) {
	if i < 0 || i >= n {
		return nil, fmt.Errorf("matgen: basis index %d out of range for length %d", i, n)
	}
	v := mat.NewVecDense(n, nil)
	v.SetVec(i, 1)
	return v, nil
}

// ParseDiagonal parses a comma-separated list of diagonal entries, e.g.
// "1,-0.75,0.6,-0.4,0". Whitespace around entries is ignored.
//
// Parameters:
//   - s: The comma-separated list.
//
// Returns:
//   - []float64: The parsed entries.
//   - error: An error naming the first unparsable entry.
func ParseDiagonal(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	diag := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("matgen: invalid diagonal entry %q: %w", p, err)
		}
		diag = append(diag, v)
	}
	if len(diag) == 0 {
		return nil, fmt.Errorf("matgen: diagonal list %q contains no entries", s)
	}
	return diag, nil
}

// FromCSV reads a dense square matrix from CSV data, one row per record.
// All rows must have the same number of fields, and the row count must equal
// the column count.
//
// Parameters:
//   - r: The CSV source.
//
// Returns:
//   - *mat.Dense: The parsed matrix.
//   - error: An error describing the first malformed cell or shape mismatch.
func FromCSV(r io.Reader) (*mat.Dense, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("matgen: reading matrix CSV: %w", err)
	}
	n := len(records)
	if n == 0 {
		return nil, fmt.Errorf("matgen: matrix CSV is empty")
	}
	a := mat.NewDense(n, len(records[0]), nil)
	for i, record := range records {
		if len(record) != len(records[0]) {
			return nil, fmt.Errorf("matgen: row %d has %d fields, want %d", i, len(record), len(records[0]))
		}
		for j, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("matgen: invalid matrix entry at row %d column %d: %w", i, j, err)
			}
			a.Set(i, j, v)
		}
	}
	if len(records[0]) != n {
		return nil, fmt.Errorf("matgen: matrix is %dx%d, want square", n, len(records[0]))
	}
	return a, nil
}
