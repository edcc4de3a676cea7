package ventas_test

import "github.com/jhoicas/Ventas-api/internal/domain/repository"

func repositoryAll() repository.SaleFilter {
	return repository.SaleFilter{Limit: 1000}
}
