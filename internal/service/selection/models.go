package selection

// BulkResult результат массового выбора
// Rejected - слоты, отфильтрованные проверкой доступности
type BulkResult struct {
	Added    []int64
	Rejected []int64
}
