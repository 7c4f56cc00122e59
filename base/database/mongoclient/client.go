package mongoclient

import (
	"context"
	"crypto/tls"
	"runtime"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/closet-labs/marketapi/base/backoff"
	"github.com/closet-labs/marketapi/base/log"
)

const (
	mgSocketTimeout = 60 * time.Second
	mgPingTimeout   = 5 * time.Second
)

// Client wraps mongo.Client with the database it was opened for
type Client struct {
	DbName string
	*mongo.Client
}

type Cfg struct {
	Uri        string
	AuthDbName string
	DbName     string
	Ssl        bool
	// SetSafe waits for a majority of the replica set on writes
	SetSafe            bool
	PoolSizeMultiplier float64
	// Retries is the number of extra connect attempts, with exponential backoff
	Retries int
}

// MustConnectMongoClient panics when the database is unreachable
func MustConnectMongoClient(cfg Cfg) *Client {
	cli, err := ConnectMongoClient(cfg)
	if err != nil {
		log.Log().WithFields(log.Fields{"db": cfg.DbName, "err": err}).Panic("fail to dial Mongo")
	}
	return cli
}

func ConnectMongoClient(cfg Cfg) (*Client, error) {
	connSetting, err := connstring.Parse(cfg.Uri)
	if err != nil {
		log.Log().WithFields(log.Fields{"db": cfg.DbName, "err": err}).Error("fail to parse connstring")
		return nil, err
	}

	clientOpts := options.Client().ApplyURI(cfg.Uri).SetSocketTimeout(mgSocketTimeout)

	if connSetting.Username != "" && connSetting.AuthSource == "" && cfg.AuthDbName != "" {
		clientOpts.SetAuth(options.Credential{
			AuthMechanism:           connSetting.AuthMechanism,
			AuthMechanismProperties: connSetting.AuthMechanismProperties,
			Username:                connSetting.Username,
			Password:                connSetting.Password,
			PasswordSet:             connSetting.PasswordSet,
			AuthSource:              cfg.AuthDbName,
		})
	}

	if poolSize := poolSizePerHost(cfg.PoolSizeMultiplier, len(connSetting.Hosts)); poolSize > 0 {
		clientOpts.SetMinPoolSize(uint64(poolSize / 4))
		clientOpts.SetMaxPoolSize(uint64(poolSize))
		log.Log().WithField("poolSize", poolSize).Info("mongo driver pool size")
	}

	if cfg.Ssl {
		clientOpts.SetTLSConfig(&tls.Config{})
	}
	if cfg.SetSafe {
		clientOpts.SetWriteConcern(writeconcern.New(writeconcern.WMajority()))
	}
	clientOpts.SetRetryWrites(true)

	var client *mongo.Client
	bo := backoff.NewExponential(500*time.Millisecond, 5*time.Second)
	err = backoff.Retry(context.Background(), bo, cfg.Retries, func(attempt int) error {
		var err error
		if client, err = connect(clientOpts); err != nil {
			log.Log().WithFields(log.Fields{
				"mongoHosts": connSetting.Hosts,
				"db":         cfg.DbName,
				"err":        err,
				"attempt":    attempt,
			}).Error("fail to connect mongo db")
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Log().WithFields(log.Fields{"mongoHosts": connSetting.Hosts, "db": cfg.DbName}).Info("mongo connected")
	return &Client{Client: client, DbName: cfg.DbName}, nil
}

func connect(opts *options.ClientOptions) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mgPingTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// poolSizePerHost splits the total pool over the hosts since the driver keeps a pool per host.
// 0 keeps the driver default.
func poolSizePerHost(multiplier float64, hosts int) int {
	if multiplier <= 0 || hosts <= 0 {
		return 0
	}
	total := int(float64(runtime.NumCPU()) * multiplier)
	return (total + hosts - 1) / hosts
}
