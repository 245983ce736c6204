package regression

import (
	"math"
	"math/rand"
)

// Split shuffles the rows with a fixed seed and holds testFraction of them out.
func Split(ds *Dataset, testFraction float64, seed int64) (train, test *Dataset) {
	n := ds.Len()
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	nTest := 0
	if testFraction > 0 {
		nTest = int(math.Ceil(float64(n) * testFraction))
	}
	if nTest >= n {
		nTest = n - 1
	}

	train, test = &Dataset{}, &Dataset{}
	for i, idx := range perm {
		target := train
		if i < nTest {
			target = test
		}
		target.X = append(target.X, ds.X[idx])
		target.Y = append(target.Y, ds.Y[idx])
	}
	return train, test
}
