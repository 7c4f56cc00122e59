package usecase

import (
	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/metrics"
	hcdomain "github.com/closet-labs/marketapi/domain/healthcheck"
)

var (
	met = metrics.New("healthcheck")
)

type impl struct {
	repo hcdomain.HealthCheckRepo
}

func New(repo hcdomain.HealthCheckRepo) hcdomain.HealthCheckUsecase {
	return &impl{
		repo: repo,
	}
}

func (im *impl) Check(c ctx.Ctx) error {
	if err := im.repo.Ping(c); err != nil {
		met.BumpSum("unhealthy", 1)
		return err
	}
	return nil
}
