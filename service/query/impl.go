package query

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/database/mongoclient"
	"github.com/closet-labs/marketapi/base/log"
	"github.com/closet-labs/marketapi/base/metrics"
	"github.com/closet-labs/marketapi/domain"
)

const (
	queryMaxTime = 20 * time.Second
	slowLogMs    = int64(500)
)

var (
	met     = metrics.New("mongo")
	timeNow = time.Now
)

type impl struct {
	client *mongoclient.Client
}

func New(client *mongoclient.Client) Mongo {
	return &impl{client: client}
}

func (im *impl) coll(table domain.Table) *mongo.Collection {
	return im.client.Database(im.client.DbName).Collection(string(table))
}

func (im *impl) logerr(c ctx.Ctx, table domain.Table, msg string, err error) {
	met.BumpSum("err", 1, "table", string(table))
	c.WithFields(log.Fields{"err": err, "table": table}).Error(msg)
}

func (im *impl) Insert(c ctx.Ctx, table domain.Table, insert interface{}) error {
	defer met.BumpTime("time", "func", "insert", "table", string(table)).End()
	defer slowLog(c, string(table), "insert", nil, "")()

	if _, err := im.coll(table).InsertOne(c, insert); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		im.logerr(c, table, "Insert: InsertOne failed", err)
		return err
	}
	return nil
}

func (im *impl) FindOne(c ctx.Ctx, table domain.Table, query, result interface{}) error {
	defer met.BumpTime("time", "func", "findone", "table", string(table)).End()
	defer slowLog(c, string(table), "findone", query, "")()

	res := im.coll(table).FindOne(c, query, options.FindOne().SetMaxTime(queryMaxTime))
	if err := res.Decode(result); err == mongo.ErrNoDocuments {
		return ErrNotFound
	} else if err != nil {
		im.logerr(c, table, "FindOne: Decode failed", err)
		return err
	}
	return nil
}

func (im *impl) Count(c ctx.Ctx, table domain.Table, selector interface{}) (int, error) {
	defer met.BumpTime("time", "func", "count", "table", string(table)).End()
	defer slowLog(c, string(table), "count", selector, "")()

	count, err := im.coll(table).CountDocuments(c, selector, options.Count().SetMaxTime(queryMaxTime))
	if err != nil {
		im.logerr(c, table, "Count: CountDocuments failed", err)
		return 0, err
	}
	return int(count), nil
}

func (im *impl) Search(c ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error {
	defer met.BumpTime("time", "func", "search", "table", string(table)).End()
	defer slowLog(c, string(table), "search", query, sort)()

	findOpts := options.Find().SetMaxTime(queryMaxTime).SetSkip(int64(offset))
	if limit > 0 {
		findOpts.SetLimit(int64(limit))
	}
	if sortOpt := sortOption(sort); len(sortOpt) > 0 {
		findOpts.SetSort(sortOpt)
	}

	cursor, err := im.coll(table).Find(c, query, findOpts)
	if err != nil {
		im.logerr(c, table, "Search: Find failed", err)
		return err
	}
	defer cursor.Close(c)

	if err := cursor.All(c, results); err != nil {
		im.logerr(c, table, "Search: cursor.All failed", err)
		return err
	}
	return nil
}

func (im *impl) Remove(c ctx.Ctx, table domain.Table, selector interface{}) error {
	defer met.BumpTime("time", "func", "remove", "table", string(table)).End()
	defer slowLog(c, string(table), "remove", selector, "")()

	res, err := im.coll(table).DeleteOne(c, selector)
	if err != nil {
		im.logerr(c, table, "Remove: DeleteOne failed", err)
		return err
	} else if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (im *impl) EnsureIndex(c ctx.Ctx, table domain.Table, unique bool, keys ...string) error {
	idx := bson.D{}
	for _, k := range keys {
		idx = append(idx, bson.E{Key: k, Value: 1})
	}
	model := mongo.IndexModel{Keys: idx, Options: options.Index().SetUnique(unique)}
	if _, err := im.coll(table).Indexes().CreateOne(c, model); err != nil {
		im.logerr(c, table, "EnsureIndex: CreateOne failed", err)
		return err
	}
	return nil
}

func sortOption(sort string) bson.D {
	switch {
	case sort == "" || sort == "-":
		return nil
	case sort[0] == '-':
		return bson.D{{Key: sort[1:], Value: -1}}
	default:
		return bson.D{{Key: sort, Value: 1}}
	}
}

func slowLog(c ctx.Ctx, table, action string, query interface{}, sort string) func() {
	start := timeNow()
	return func() {
		elapsedMs := timeNow().Sub(start).Milliseconds()
		if elapsedMs < slowLogMs {
			return
		}
		met.BumpSum("slowlog", 1, "table", table, "action", action)
		c.WithFields(log.Fields{
			"table":      table,
			"action":     action,
			"startTime":  start.Unix(),
			"durationMs": elapsedMs,
			"query":      query,
			"sort":       sort,
		}).Warn("mongo slowlog")
	}
}
