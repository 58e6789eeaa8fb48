package bitset

import "math/bits"

type BitSetBySlice struct {
	data []uint64
}

func NewBitSetBySlice(d []uint64) *BitSetBySlice {
	return &BitSetBySlice{d}
}

// NewBitSetBySliceWithCap 预先分配位串的长度，输入参数为需要的位数
func NewBitSetBySliceWithCap(bitLength int) *BitSetBySlice {
	blockSize := 0
	if bitLength > 0 {
		blockSize = (bitLength + 63) / 64
	}
	data := make([]uint64, blockSize, blockSize)
	return &BitSetBySlice{
		data: data,
	}
}

// SetBit 设置该位为1
func (bitSet *BitSetBySlice) SetBit(pos int) {
	if pos < 0 {
		return
	}
	blockIndex := pos / 64 // 设置哪一块，从0起
	posInBlock := pos % 64
	if len((*bitSet).data) < blockIndex+1 { // 要扩容
		newData := make([]uint64, blockIndex+1, blockIndex+1)
		copy(newData, (*bitSet).data)
		(*bitSet).data = newData
	}
	(*bitSet).data[blockIndex] = (*bitSet).data[blockIndex] | (1 << posInBlock)
}

// GetBit 获取该位bit，返回0则该位为0，返回非0则是1
func (bitSet *BitSetBySlice) GetBit(pos int) int {
	if pos < 0 {
		return 0
	}
	blockIndex := pos / 64
	posInBlock := pos % 64
	if len((*bitSet).data) < blockIndex+1 {
		return 0
	}
	if (*bitSet).data[blockIndex]&(1<<posInBlock) != 0 {
		return 1
	}
	return 0
}

// Union 与另一个位串进行或操作
func (bitSet *BitSetBySlice) Union(other BitSet) {
	switch o := other.(type) {
	case *BitSetBySlice:
		unionLen := len(o.data)
		if len((*bitSet).data) < unionLen { // 先扩容
			newData := make([]uint64, unionLen, unionLen)
			copy(newData, (*bitSet).data)
			(*bitSet).data = newData
		}
		for blockIndex, blockDataInOther := range o.data {
			(*bitSet).data[blockIndex] = (*bitSet).data[blockIndex] | blockDataInOther
		}
	default:
		for _, pos := range other.AllOneBitsInUint64() {
			bitSet.SetBit(int(pos))
		}
	}
}

// Intersect 与另一个位串进行与操作，另一个更短时多出来的块清零
func (bitSet *BitSetBySlice) Intersect(other BitSet) {
	dataInOther := (*other.(*BitSetBySlice)).data // 可能panic
	for blockIndex := range (*bitSet).data {
		if blockIndex < len(dataInOther) {
			(*bitSet).data[blockIndex] = (*bitSet).data[blockIndex] & dataInOther[blockIndex]
		} else {
			(*bitSet).data[blockIndex] = 0
		}
	}
}

// IntersectCount 与操作后1的个数，不修改两边
func (bitSet *BitSetBySlice) IntersectCount(other *BitSetBySlice) uint64 {
	n := len((*bitSet).data)
	if len(other.data) < n {
		n = len(other.data)
	}
	var count uint64
	for i := 0; i < n; i++ {
		count += uint64(bits.OnesCount64((*bitSet).data[i] & other.data[i]))
	}
	return count
}

// And 返回两者交集的新位串
func (bitSet *BitSetBySlice) And(other *BitSetBySlice) *BitSetBySlice {
	res := bitSet.Clone()
	res.Intersect(other)
	return res
}

func (bitSet *BitSetBySlice) Clone() *BitSetBySlice {
	data := make([]uint64, len((*bitSet).data))
	copy(data, (*bitSet).data)
	return &BitSetBySlice{data: data}
}

// Count 计数，位串中有几个1
func (bitSet *BitSetBySlice) Count() uint64 {
	var count uint64 = 0
	for _, block := range (*bitSet).data {
		count += uint64(bits.OnesCount64(block))
	}
	return count
}

// AllOneBitsInUint64 获得具体有哪几位为1
func (bitSet *BitSetBySlice) AllOneBitsInUint64() []uint64 {
	res := make([]uint64, 0, bitSet.Count())
	for blockIndex, block := range (*bitSet).data {
		for block != 0 {
			onePos := uint64(bits.TrailingZeros64(block))
			res = append(res, (uint64(blockIndex)<<6)+onePos)
			block &= block - 1
		}
	}
	return res
}

// Clear 清一下slice，为了垃圾回收
func (bitSet *BitSetBySlice) Clear() {
	(*bitSet).data = make([]uint64, 0)
}

// Bytes 占用内存(字节)
func (bitSet *BitSetBySlice) Bytes() int {
	return len((*bitSet).data) * 8
}
