package similarity

import (
	"sort"
	"strconv"
	"strings"

	"github.com/feedcorpus/backend/internal/corpus"
)

// Matrix is a square pairwise-similarity matrix indexed by document
// unique id. Values are in [0,1], the matrix is symmetric and the
// diagonal equals 1.0. It is derived state: recomputed whole whenever
// the engine is invoked, never partially updated.
type Matrix map[string]map[string]float64

// Compute builds the TF-IDF pairwise similarity matrix for the given
// collection. Title and body are concatenated into one text per document.
func Compute(docs []corpus.Document) Matrix {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Title + " " + d.Text
	}

	v := NewVectorizer()
	v.Fit(texts)

	vectors := make([][]float64, len(docs))
	for i, text := range texts {
		vectors[i] = v.Transform(text)
	}

	m := make(Matrix, len(docs))
	for _, d := range docs {
		m[d.UniqueID()] = make(map[string]float64, len(docs))
		m[d.UniqueID()][d.UniqueID()] = 1.0
	}
	for i := range docs {
		for j := i + 1; j < len(docs); j++ {
			s := Cosine(vectors[i], vectors[j])
			m[docs[i].UniqueID()][docs[j].UniqueID()] = s
			m[docs[j].UniqueID()][docs[i].UniqueID()] = s
		}
	}
	return m
}

// Neighbor is one related document for a given source document.
type Neighbor struct {
	SimilarSource string  `json:"similar_source"`
	SimilarID     string  `json:"similar_id"`
	Similarity    float64 `json:"similarity"`
}

// Related derives, for every document, its k most similar neighbors with
// strictly positive similarity, grouped by origin tag then document id.
// Selection is an ascending stable sort followed by taking the tail, so
// for tied similarities the later collection entries win over a naive
// descending top-k.
func Related(m Matrix, docs []corpus.Document, k int) map[string]map[string][]Neighbor {
	pairs := make(map[string]map[string][]Neighbor)

	for _, d := range docs {
		uid := d.UniqueID()
		origin, docID := splitUniqueID(uid)
		if pairs[origin] == nil {
			pairs[origin] = make(map[string][]Neighbor)
		}
		pairs[origin][docID] = []Neighbor{}

		type scored struct {
			uid string
			sim float64
		}
		var candidates []scored
		for _, other := range docs {
			ouid := other.UniqueID()
			if ouid == uid {
				continue
			}
			sim := m[ouid][uid]
			if sim <= 0 {
				continue
			}
			candidates = append(candidates, scored{uid: ouid, sim: sim})
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].sim < candidates[j].sim
		})
		if len(candidates) > k {
			candidates = candidates[len(candidates)-k:]
		}

		for _, cand := range candidates {
			simSource, simID := splitUniqueID(cand.uid)
			pairs[origin][docID] = append(pairs[origin][docID], Neighbor{
				SimilarSource: simSource,
				SimilarID:     simID,
				Similarity:    cand.sim,
			})
		}
	}
	return pairs
}

// RelatedTo returns the neighbors of one document by corpus id.
func RelatedTo(m Matrix, docs []corpus.Document, id int, k int) []Neighbor {
	pairs := Related(m, docs, k)
	for _, d := range docs {
		if d.ID == id {
			origin, docID := splitUniqueID(d.UniqueID())
			return pairs[origin][docID]
		}
	}
	return nil
}

func splitUniqueID(uid string) (origin, id string) {
	i := strings.LastIndex(uid, "_")
	if i < 0 {
		return uid, ""
	}
	return uid[:i], uid[i+1:]
}

// ParseDocID converts the id half of a unique id back to a corpus id.
func ParseDocID(id string) int {
	n, _ := strconv.Atoi(id)
	return n
}
