package usecase

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// 0はデフォルト扱い。範囲外は400
func NormalizePaging(page, limit int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = defaultPageLimit
	}
	if page < 1 {
		return 0, 0, NewValidationError("invalid page")
	}
	if limit < 1 || limit > maxPageLimit {
		return 0, 0, NewValidationError("invalid limit")
	}
	return page, limit, nil
}

func TotalPages(total int64, limit int) int {
	if total == 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
