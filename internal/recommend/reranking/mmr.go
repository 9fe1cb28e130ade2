// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

// Package reranking implements post-processing algorithms for
// recommendation diversity.
package reranking

import (
	"math"

	"github.com/shelfwise/shelfwise/internal/models"
)

// maxRerankSize limits slice allocations; k is also bounded by len(items).
const maxRerankSize = 10000

// MMR implements Maximal Marginal Relevance reranking.
// It balances relevance and diversity by iteratively selecting items
// that are both relevant and dissimilar to already selected items.
//
// The MMR formula is:
//
//	MMR = argmax[lambda * score(i) - (1-lambda) * max(sim(i, s)) for s in selected]
//
// Where:
//   - lambda: balance parameter (1.0 = pure relevance, 0.0 = pure diversity)
//   - score(i): original relevance score for item i
//   - sim(i, s): similarity between item i and selected item s
//
// For books, pairwise similarity blends category identity with the
// closeness of the five-emotion profile, so a result page mixes
// categories and moods instead of returning near-duplicates.
//
// Reference:
// Carbonell, J., & Goldstein, J. (1998). "The Use of MMR, Diversity-Based
// Reranking for Reordering Documents and Producing Summaries." SIGIR 1998.
type MMR struct {
	// Lambda balances relevance vs. diversity (0.0 to 1.0)
	lambda float64
}

// NewMMR creates a new MMR reranker.
func NewMMR(lambda float64) *MMR {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	return &MMR{lambda: lambda}
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Rerank selects up to k items balancing relevance against diversity.
func (m *MMR) Rerank(items []models.Recommendation, k int) []models.Recommendation {
	if len(items) == 0 || k <= 0 {
		return items
	}

	if k > maxRerankSize {
		k = maxRerankSize
	}
	if k > len(items) {
		k = len(items)
	}

	// Early return if lambda is 1.0 (pure relevance)
	if m.lambda >= 1.0 {
		if len(items) > k {
			return items[:k]
		}
		return items
	}

	similarities := buildSimilarityMatrix(items)

	// Greedy MMR selection
	selected := make([]models.Recommendation, 0, k)
	selectedIndices := make(map[int]struct{})

	for len(selected) < k {
		bestIdx := -1
		bestMMR := math.Inf(-1)

		for i := range items {
			if _, ok := selectedIndices[i]; ok {
				continue
			}

			relevance := items[i].Score
			maxSim := 0.0
			for j := range selectedIndices {
				if sim := similarities[i][j]; sim > maxSim {
					maxSim = sim
				}
			}

			mmrScore := m.lambda*relevance - (1-m.lambda)*maxSim
			if mmrScore > bestMMR {
				bestMMR = mmrScore
				bestIdx = i
			}
		}

		if bestIdx < 0 {
			break
		}
		selected = append(selected, items[bestIdx])
		selectedIndices[bestIdx] = struct{}{}
	}

	return selected
}

// buildSimilarityMatrix computes pairwise book similarity.
func buildSimilarityMatrix(items []models.Recommendation) [][]float64 {
	n := len(items)
	similarities := make([][]float64, n)
	for i := range similarities {
		similarities[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sim := bookSimilarity(&items[i], &items[j])
			similarities[i][j] = sim
			similarities[j][i] = sim
		}
	}
	return similarities
}

// bookSimilarity blends category identity (weight 0.5) with emotion
// profile cosine similarity (weight 0.5).
func bookSimilarity(a, b *models.Recommendation) float64 {
	var categorySim float64
	if a.Category != "" && a.Category == b.Category {
		categorySim = 1
	}
	return 0.5*categorySim + 0.5*emotionSimilarity(a.Emotions, b.Emotions)
}

// emotionSimilarity computes cosine similarity over the five emotion
// scores, clamped to [0, 1].
func emotionSimilarity(a, b models.EmotionScores) float64 {
	av := [5]float64{a.Joy, a.Surprise, a.Anger, a.Fear, a.Sadness}
	bv := [5]float64{b.Joy, b.Surprise, b.Anger, b.Fear, b.Sadness}

	var dot, normA, normB float64
	for i := range av {
		dot += av[i] * bv[i]
		normA += av[i] * av[i]
		normB += bv[i] * bv[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	return sim
}
