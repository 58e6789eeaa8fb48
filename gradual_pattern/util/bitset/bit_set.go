package bitset

// BitSet 行对矩阵(n*n位，行优先)以及它们的交集都用位串存
type BitSet interface {
	SetBit(pos int)               // SetBit 设置该位为1
	GetBit(pos int) int           // GetBit 获取该位bit，返回0则该位为0，返回非0则是1
	Union(other BitSet)           // Union 与另一个位串进行或操作
	Intersect(other BitSet)       // Intersect 与另一个位串进行与操作
	Count() uint64                // Count 计数，位串中有几个1
	AllOneBitsInUint64() []uint64 // AllOneBitsInUint64 获得具体有哪几位为1
	Clear()                       // Clear 清空一下数据，为了垃圾回收
}
