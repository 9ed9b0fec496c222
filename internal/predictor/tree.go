package predictor

import (
	"fmt"
	"sort"
)

// DecisionTree is a shallow regression tree: variance-reduction splits,
// mean-value leaves, fully deterministic (ties break toward the lower
// feature index and lower threshold).
type DecisionTree struct {
	maxDepth        int
	minSamplesSplit int
	root            *treeNode
}

type treeNode struct {
	feature   int
	threshold float64
	value     float64
	left      *treeNode
	right     *treeNode
	leaf      bool
}

// NewDecisionTree returns an unfitted tree limited to maxDepth levels.
func NewDecisionTree(maxDepth int) *DecisionTree {
	return &DecisionTree{maxDepth: maxDepth, minSamplesSplit: 2}
}

// Fit grows the tree on raw (unscaled) features.
func (t *DecisionTree) Fit(features [][]float64, target []float64) error {
	if len(features) == 0 || len(features) != len(target) {
		return fmt.Errorf("decision tree needs matching non-empty features and target, got %d/%d", len(features), len(target))
	}
	idx := make([]int, len(features))
	for i := range idx {
		idx[i] = i
	}
	t.root = t.grow(features, target, idx, 0)
	return nil
}

// Predict walks one feature vector down to a leaf.
func (t *DecisionTree) Predict(features []float64) (float64, error) {
	if t.root == nil {
		return 0, fmt.Errorf("decision tree is not fitted")
	}
	node := t.root
	for !node.leaf {
		if node.feature >= len(features) {
			return 0, fmt.Errorf("expected at least %d features, got %d", node.feature+1, len(features))
		}
		if features[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value, nil
}

func (t *DecisionTree) grow(features [][]float64, target []float64, idx []int, depth int) *treeNode {
	if depth >= t.maxDepth || len(idx) < t.minSamplesSplit {
		return &treeNode{leaf: true, value: mean(target, idx)}
	}

	feature, threshold, ok := bestSplit(features, target, idx)
	if !ok {
		return &treeNode{leaf: true, value: mean(target, idx)}
	}

	var left, right []int
	for _, i := range idx {
		if features[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, value: mean(target, idx)}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.grow(features, target, left, depth+1),
		right:     t.grow(features, target, right, depth+1),
	}
}

// bestSplit scans every feature and every midpoint between consecutive
// distinct values, minimizing the weighted sum of child variances.
func bestSplit(features [][]float64, target []float64, idx []int) (int, float64, bool) {
	bestFeature, bestThreshold := -1, 0.0
	bestScore := sse(target, idx)
	found := false

	cols := len(features[idx[0]])
	vals := make([]float64, 0, len(idx))
	for f := 0; f < cols; f++ {
		vals = vals[:0]
		for _, i := range idx {
			vals = append(vals, features[i][f])
		}
		sort.Float64s(vals)

		for k := 1; k < len(vals); k++ {
			if vals[k] == vals[k-1] {
				continue
			}
			threshold := (vals[k] + vals[k-1]) / 2
			var left, right []int
			for _, i := range idx {
				if features[i][f] <= threshold {
					left = append(left, i)
				} else {
					right = append(right, i)
				}
			}
			score := sse(target, left) + sse(target, right)
			if score < bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = threshold
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}

func mean(target []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += target[i]
	}
	return sum / float64(len(idx))
}

// sse is the sum of squared errors around the subset mean.
func sse(target []float64, idx []int) float64 {
	m := mean(target, idx)
	out := 0.0
	for _, i := range idx {
		d := target[i] - m
		out += d * d
	}
	return out
}
