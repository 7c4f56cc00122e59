package metrics

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/spf13/viper"

	"github.com/closet-labs/marketapi/base/log"
)

const (
	ddClientsSize    = 8 // needs to be 2^n
	ddClientsIdxMask = ddClientsSize - 1

	// buffer 10 counters before sending to statsd
	bufferMetrics = 10
)

var (
	initOnce = sync.Once{}

	// DdPort is the statsd agent port
	DdPort = 8125

	// round robin index into ddClients
	ddClientsIdx = int32(0)
	ddClients    []statsCli
)

type statsCli interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	TimeInMilliseconds(name string, value float64, tags []string, rate float64) error
}

// initClients dials the datadog agent. Without a datadog_host every bump goes
// to the debug log instead.
func initClients() {
	host := viper.GetString("datadog_host")
	ddClients = make([]statsCli, ddClientsSize)
	for i := 0; i < ddClientsSize; i++ {
		if host == "" {
			ddClients[i] = &LogClient{}
			continue
		}

		addr := fmt.Sprintf("%s:%d", host, DdPort)
		cli, err := statsd.NewBuffered(addr, bufferMetrics)
		if err != nil {
			log.Log().WithFields(log.Fields{"addr": addr, "err": err}).Error("can't talk to datadog agent, fallback to log client")
			ddClients[i] = &LogClient{}
			continue
		}
		ddClients[i] = cli
	}
}

func nextClient() statsCli {
	initOnce.Do(initClients)
	i := atomic.AddInt32(&ddClientsIdx, 1) & ddClientsIdxMask
	return ddClients[i]
}

type ddMetrics struct {
	ddTags []string
}

func (dm *ddMetrics) tags(tags []string) []string {
	out := make([]string, 0, len(dm.ddTags)+len(tags)/2)
	out = append(out, dm.ddTags...)
	return append(out, parseTag(tags)...)
}

func (dm *ddMetrics) bumpAvg(key string, val float64, tags ...string) {
	if err := nextClient().Gauge(key, val, dm.tags(tags), 1); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "func": "BumpAvg"}).Error("Bump fail")
	}
}

func (dm *ddMetrics) bumpSum(key string, val float64, tags ...string) {
	if err := nextClient().Count(key, int64(val), dm.tags(tags), 1); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "func": "BumpSum"}).Error("Bump fail")
	}
}

func (dm *ddMetrics) bumpHistogram(key string, val float64, tags ...string) {
	if err := nextClient().Histogram(key, val, dm.tags(tags), 1); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "func": "BumpHistogram"}).Error("Bump fail")
	}
}

func (dm *ddMetrics) bumpTime(key string, tags ...string) Ender {
	return &ddTimeTracker{
		start: time.Now(),
		key:   key,
		tags:  dm.tags(tags),
	}
}

// parseTag turns k1, v1, k2, v2 into k1:v1, k2:v2
func parseTag(tags []string) []string {
	if len(tags)%2 != 0 {
		log.Log().WithField("tags", tags).Warn("tag length needs to be multiple of 2")
		tags = tags[:len(tags)-1]
	}
	arr := make([]string, len(tags)/2)
	for i := 0; i < len(tags); i += 2 {
		arr[i/2] = tags[i] + ":" + tags[i+1]
	}
	return arr
}

type ddTimeTracker struct {
	start time.Time
	key   string
	tags  []string
}

func (dt *ddTimeTracker) End() {
	dur := float64(time.Since(dt.start)) / float64(time.Millisecond)
	if err := nextClient().TimeInMilliseconds(dt.key, dur, dt.tags, 1); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": dt.key, "func": "BumpTime"}).Error("Bump fail")
	}
}
