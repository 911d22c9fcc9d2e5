// Copyright 2023 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/fillay12321/qbench/quest/record"
	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/vg"
)

// RegressionTargets are the columns the model predicts.
var RegressionTargets = []string{"exec_ms", "transpile_ms"}

// ErrTooFewRows is returned when the table cannot be split into training
// and test rows.
var ErrTooFewRows = errors.New("not enough rows to fit a model")

const (
	ridgePenalty       = 1.0
	permutationRepeats = 5
)

// Importance is the share of a feature in the model's explained variance.
type Importance struct {
	Feature string
	Value   float64
}

// ModelReport describes the model fitted for one target.
type ModelReport struct {
	Target      string
	TrainRows   int
	TestRows    int
	MAE         float64
	R2          float64
	Importances []Importance // descending
	Plot        string
}

// ImportanceFile returns the plot file name for a target.
func ImportanceFile(target string) string {
	return fmt.Sprintf("importance_%s.png", target)
}

// regressionFeatures are all numeric columns except the targets.
func regressionFeatures() []string {
	skip := make(map[string]bool, len(RegressionTargets))
	for _, t := range RegressionTargets {
		skip[t] = true
	}
	var features []string
	for _, name := range record.NumericColumns() {
		if !skip[name] {
			features = append(features, name)
		}
	}
	return features
}

// Regression fits a ridge model on standardised features for every target,
// using a seeded random split that holds out testFraction of the rows. It
// reports MAE and R² on the held-out rows and plots permutation importances.
func (a *Analyzer) Regression(seed int64, testFraction float64) ([]ModelReport, error) {
	n := a.table.Len()
	nTest := int(math.Ceil(testFraction * float64(n)))
	if nTest < 1 {
		nTest = 1
	}
	if n-nTest < 2 {
		return nil, fmt.Errorf("%w: %d rows", ErrTooFewRows, n)
	}
	features := regressionFeatures()
	x := make([][]float64, n)
	for i := range x {
		x[i] = make([]float64, len(features))
	}
	for j, name := range features {
		for i, v := range a.table.mustColumn(name) {
			x[i][j] = v
		}
	}

	var reports []ModelReport
	for _, target := range RegressionTargets {
		y := a.table.mustColumn(target)

		perm := rand.New(rand.NewSource(seed)).Perm(n)
		testIdx, trainIdx := perm[:nTest], perm[nTest:]
		xTrain, yTrain := subset(x, y, trainIdx)
		xTest, yTest := subset(x, y, testIdx)

		model, err := fitRidge(xTrain, yTrain, ridgePenalty)
		if err != nil {
			return reports, fmt.Errorf("fit %s: %w", target, err)
		}
		pred := model.predictAll(xTest)
		report := ModelReport{
			Target:      target,
			TrainRows:   len(trainIdx),
			TestRows:    len(testIdx),
			MAE:         meanAbsoluteError(yTest, pred),
			R2:          r2Score(yTest, pred),
			Importances: permutationImportance(model, xTrain, yTrain, features, rand.New(rand.NewSource(seed))),
			Plot:        a.path(ImportanceFile(target)),
		}

		a.header("Predicting " + target)
		fmt.Fprintf(a.out, "MAE: %.3f ms\n", report.MAE)
		fmt.Fprintf(a.out, "R² : %.4f\n", report.R2)

		table := tablewriter.NewWriter(a.out)
		table.SetHeader([]string{"feature", "importance"})
		table.SetAutoFormatHeaders(false)
		names := make([]string, len(report.Importances))
		values := make([]float64, len(report.Importances))
		for i, imp := range report.Importances {
			table.Append([]string{imp.Feature, fmt.Sprintf("%.4f", imp.Value)})
			names[i], values[i] = imp.Feature, imp.Value
		}
		table.Render()

		p, err := barh(names, values, "Feature importance for predicting "+target, "Importance", purple)
		if err != nil {
			return reports, err
		}
		if err := savePlot(p, 10*vg.Inch, 5*vg.Inch, report.Plot); err != nil {
			return reports, err
		}
		fmt.Fprintf(a.out, "Plot saved to %s\n", report.Plot)
		reports = append(reports, report)
	}
	return reports, nil
}

func subset(x [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, k := range idx {
		xs[i], ys[i] = x[k], y[k]
	}
	return xs, ys
}

// ridgeModel is a linear model over standardised features.
type ridgeModel struct {
	mean      []float64
	scale     []float64
	intercept float64
	coef      []float64
}

// fitRidge solves (XᵀX + λI)β = Xᵀ(y − ȳ) on standardised X. Constant
// features standardise to zero and receive no weight.
func fitRidge(x [][]float64, y []float64, lambda float64) (*ridgeModel, error) {
	n, p := len(x), len(x[0])
	m := &ridgeModel{mean: make([]float64, p), scale: make([]float64, p)}

	col := make([]float64, n)
	for j := 0; j < p; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		mean, variance := stat.PopMeanVariance(col, nil)
		m.mean[j], m.scale[j] = mean, math.Sqrt(variance)
		if m.scale[j] == 0 || !isFinite(m.scale[j]) {
			m.scale[j] = 1
		}
	}
	xs := mat.NewDense(n, p, nil)
	for i := range x {
		xs.SetRow(i, m.standardise(x[i]))
	}
	m.intercept = stat.Mean(y, nil)
	yc := mat.NewVecDense(n, nil)
	for i, v := range y {
		yc.SetVec(i, v-m.intercept)
	}

	var gram mat.SymDense
	gram.SymOuterK(1, xs.T())
	for j := 0; j < p; j++ {
		gram.SetSym(j, j, gram.At(j, j)+lambda)
	}
	var rhs mat.VecDense
	rhs.MulVec(xs.T(), yc)

	var chol mat.Cholesky
	if ok := chol.Factorize(&gram); !ok {
		return nil, errors.New("normal equations are not positive definite")
	}
	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &rhs); err != nil {
		return nil, err
	}
	m.coef = make([]float64, p)
	for j := range m.coef {
		m.coef[j] = beta.AtVec(j)
	}
	return m, nil
}

func (m *ridgeModel) standardise(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - m.mean[j]) / m.scale[j]
	}
	return out
}

func (m *ridgeModel) predict(row []float64) float64 {
	y := m.intercept
	for j, v := range row {
		y += m.coef[j] * (v - m.mean[j]) / m.scale[j]
	}
	return y
}

func (m *ridgeModel) predictAll(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = m.predict(row)
	}
	return out
}

func meanAbsoluteError(y, pred []float64) float64 {
	sum := 0.0
	for i := range y {
		sum += math.Abs(y[i] - pred[i])
	}
	return sum / float64(len(y))
}

// r2Score is the coefficient of determination, NaN for a constant target.
func r2Score(y, pred []float64) float64 {
	mean := stat.Mean(y, nil)
	var ssRes, ssTot float64
	for i := range y {
		ssRes += (y[i] - pred[i]) * (y[i] - pred[i])
		ssTot += (y[i] - mean) * (y[i] - mean)
	}
	if ssTot == 0 {
		return math.NaN()
	}
	return 1 - ssRes/ssTot
}

// permutationImportance measures the drop in training R² when one feature
// is shuffled. Drops are clipped at zero and normalised to sum to one.
func permutationImportance(m *ridgeModel, x [][]float64, y []float64, features []string, rng *rand.Rand) []Importance {
	base := r2Score(y, m.predictAll(x))
	shuffled := make([][]float64, len(x))
	for i := range x {
		shuffled[i] = append([]float64(nil), x[i]...)
	}
	imps := make([]Importance, len(features))
	total := 0.0
	for j, name := range features {
		drop := 0.0
		for r := 0; r < permutationRepeats; r++ {
			perm := rng.Perm(len(x))
			for i := range shuffled {
				shuffled[i][j] = x[perm[i]][j]
			}
			drop += base - r2Score(y, m.predictAll(shuffled))
		}
		for i := range shuffled {
			shuffled[i][j] = x[i][j]
		}
		drop /= permutationRepeats
		if !isFinite(drop) || drop < 0 {
			drop = 0
		}
		imps[j] = Importance{Feature: name, Value: drop}
		total += drop
	}
	if total > 0 {
		for j := range imps {
			imps[j].Value /= total
		}
	}
	sort.SliceStable(imps, func(i, j int) bool { return imps[i].Value > imps[j].Value })
	return imps
}
