/*Package metrics wraps datadog-go to faciliate metric recording
Following are naming convention of metric:
- Internal process time: *.time
- External latency: *.latency
- Error: *.err
- Warning: *.warn
*/
package metrics

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/closet-labs/marketapi/base/env"
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	// BumpTime starts a timer, typically used as
	//
	//     defer met.BumpTime("refresh.time").End()
	BumpTime(key string, tags ...string) Ender
}

// New creates a metric client with package name as key prefix
func New(pkgName string) Service {
	return &Metrics{
		pkgName: pkgName,
		datadog: ddMetrics{
			ddTags: []string{
				"host:", // remove unused host tag
				"pod:" + env.PodName(),
				"env:" + viper.GetString("env_name"),
				"app:" + viper.GetString("app_name"),
			},
		},
	}
}

type Metrics struct {
	pkgName string
	datadog ddMetrics
}

func (mt *Metrics) key(key string) string {
	return mt.pkgName + "." + key
}

// recoverPanic keeps a broken metrics agent from taking down the caller.
func (mt *Metrics) recoverPanic(op, key string, tags []string) {
	if err := recover(); err != nil {
		mt.datadog.bumpSum(op+".panic", 1, "tag", mt.key(key)+"#"+strings.Join(tags, "#"))
	}
}

func (mt *Metrics) BumpAvg(key string, val float64, tags ...string) {
	defer mt.recoverPanic("bumpavg", key, tags)
	mt.datadog.bumpAvg(mt.key(key), val, tags...)
}

func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	defer mt.recoverPanic("bumpsum", key, tags)
	mt.datadog.bumpSum(mt.key(key), val, tags...)
}

func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	defer mt.recoverPanic("bumphistogram", key, tags)
	mt.datadog.bumpHistogram(mt.key(key), val, tags...)
}

func (mt *Metrics) BumpTime(key string, tags ...string) Ender {
	defer mt.recoverPanic("bumptime", key, tags)
	return mt.datadog.bumpTime(mt.key(key), tags...)
}
