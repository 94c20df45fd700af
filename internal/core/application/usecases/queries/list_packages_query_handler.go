package queries

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type ListPackagesQueryHandler struct {
	db *gorm.DB
}

func NewListPackagesQueryHandler(db *gorm.DB) ListPackagesQueryHandler {
	return ListPackagesQueryHandler{db: db}
}

// Handle returns matching packages ordered by creation time.
func (h ListPackagesQueryHandler) Handle(ctx context.Context, query ListPackagesQuery) ([]PackageResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tx := h.db.WithContext(ctx).Table("packages").Select(packageColumns)
	if query.Sender() != "" {
		tx = tx.Where(`sender ILIKE ? ESCAPE '\'`, containsPattern(query.Sender()))
	}
	if query.Recipient() != "" {
		tx = tx.Where(`recipient ILIKE ? ESCAPE '\'`, containsPattern(query.Recipient()))
	}

	rows, err := tx.Order("created_at, id").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	packages := make([]PackageResponse, 0)
	for rows.Next() {
		pkg, scanErr := scanPackage(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		packages = append(packages, pkg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return packages, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches value literally anywhere in the column.
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}
