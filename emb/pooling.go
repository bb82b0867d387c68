package emb

import "math"

// meanPool averages the hidden states of the positions the attention mask
// marks as real tokens. hidden is a flattened [seqLen, dims] block.
func meanPool(hidden []float32, mask []int64, seqLen, dims int) []float32 {
	out := make([]float32, dims)
	var count float32
	for pos := 0; pos < seqLen; pos++ {
		if mask[pos] == 0 {
			continue
		}
		count++
		base := pos * dims
		for d := 0; d < dims; d++ {
			out[d] += hidden[base+d]
		}
	}
	if count == 0 {
		return out
	}
	for d := range out {
		out[d] /= count
	}
	return out
}

// l2Normalize scales vec to unit length in place. The zero vector is
// returned unchanged.
func l2Normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range vec {
		vec[i] *= inv
	}
	return vec
}
