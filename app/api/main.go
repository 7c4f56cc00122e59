package main

import (
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/go-playground/validator/v10"
	ipfsapi "github.com/ipfs/go-ipfs-api"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/database/mongoclient"
	"github.com/closet-labs/marketapi/base/database/redisclient"
	"github.com/closet-labs/marketapi/base/goroutine"
	"github.com/closet-labs/marketapi/base/log"
	metadataParser "github.com/closet-labs/marketapi/base/metadata_parser"
	"github.com/closet-labs/marketapi/base/metrics"
	bValidator "github.com/closet-labs/marketapi/base/validator"
	"github.com/closet-labs/marketapi/domain"
	"github.com/closet-labs/marketapi/domain/keys"
	mmiddleware "github.com/closet-labs/marketapi/middleware"
	"github.com/closet-labs/marketapi/service/cache"
	compoundCache "github.com/closet-labs/marketapi/service/cache/compoundCache"
	"github.com/closet-labs/marketapi/service/cache/provider/primitive"
	redisProvider "github.com/closet-labs/marketapi/service/cache/provider/redis"
	"github.com/closet-labs/marketapi/service/chain"
	"github.com/closet-labs/marketapi/service/query"
	"github.com/closet-labs/marketapi/service/redis"
	auth_middleware "github.com/closet-labs/marketapi/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/closet-labs/marketapi/stores/auth/usecase"
	hc_delivery "github.com/closet-labs/marketapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/closet-labs/marketapi/stores/healthcheck/repository"
	hc_usecase "github.com/closet-labs/marketapi/stores/healthcheck/usecase"
	listing_repository "github.com/closet-labs/marketapi/stores/listing/repository"
	marketplace_delivery "github.com/closet-labs/marketapi/stores/marketplace/delivery/http"
	marketplace_usecase "github.com/closet-labs/marketapi/stores/marketplace/usecase"
	metadata_usecase "github.com/closet-labs/marketapi/stores/metadata/usecase"
	nft_delivery "github.com/closet-labs/marketapi/stores/nft/delivery/http"
	nft_repository "github.com/closet-labs/marketapi/stores/nft/repository"
	nft_usecase "github.com/closet-labs/marketapi/stores/nft/usecase"
	web_resource_repository "github.com/closet-labs/marketapi/stores/web_resource/repository"
	web_resource_usecase "github.com/closet-labs/marketapi/stores/web_resource/usecase"

	_ "github.com/closet-labs/marketapi/app/api/docs"
)

const visitorIdle = 10 * time.Minute

func init() {
	configFile := pflag.String("config", "infra/configs/config.yaml", "path of the yaml config")
	pflag.Parse()

	// a missing .env is fine outside local development
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	log.Setup(log.Cfg{
		Debug: viper.GetBool("debug"),
		File: log.FileCfg{
			Path:       viper.GetString("log.file.path"),
			MaxSizeMb:  viper.GetInt("log.file.maxSizeMb"),
			MaxBackups: viper.GetInt("log.file.maxBackups"),
			MaxAgeDays: viper.GetInt("log.file.maxAgeDays"),
		},
	})

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func rpcUrls() map[domain.Network]string {
	urls := map[domain.Network]string{}
	for name := range viper.GetStringMap("solana.networks") {
		network := domain.Network(name)
		url := viper.GetString("solana.networks." + name + ".rpcUrl")
		if url == "" {
			url = chain.DefaultRpcUrls[network]
		}
		urls[network] = url
	}
	if len(urls) == 0 {
		urls[domain.NetworkDevnet] = chain.DefaultRpcUrls[domain.NetworkDevnet]
	}
	return urls
}

//	@title			Closet Marketplace API
//	@version		1.0
//	@description	Listings of the Closet marketplace program joined with their metadata, faceted and filtered per session.

// main
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				apply the designer token with `bearer {token}`
func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		// compressing would break the websocket upgrade
		Skipper: func(c echo.Context) bool {
			return strings.HasSuffix(c.Path(), "/stream")
		},
	}))
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.AddContext())
	e.Use(middL.ResponseLogger())
	e.Use(middL.CORS)
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	rps := viper.GetFloat64("http.rateLimit.rps")
	if rps > 0 {
		limiter := mmiddleware.NewRateLimiter(rps, viper.GetInt("http.rateLimit.burst"))
		e.Use(limiter.Middleware())
		goroutine.Go(func() {
			ticker := time.NewTicker(visitorIdle)
			defer ticker.Stop()
			for range ticker.C {
				if n := limiter.Cleanup(visitorIdle); n > 0 {
					context.WithField("visitors", n).Debug("rate limiter cleaned up")
				}
			}
		})
	}

	// init Redis service, optional
	var redisCache redis.Service
	if uri := viper.GetString("redis_cache.uri"); uri != "" {
		context.Info("init redis cache")
		redisCacheName := viper.GetString("redis_cache.name")
		pool := redisclient.MustConnectRedis(redisclient.Cfg{
			Uri:            uri,
			Password:       viper.GetString("redis_cache.password"),
			PoolMultiplier: viper.GetFloat64("redis_cache.poolMultiplier"),
			Retries:        viper.GetInt("redis_cache.retries"),
		})
		redisCache = redis.New(redisCacheName, metrics.New(redisCacheName), pool)
	}

	// init mongo client, optional
	var mongoClient *mongoclient.Client
	if uri := viper.GetString("mongo.uri"); uri != "" {
		context.Info("init mongo")
		mongoClient = mongoclient.MustConnectMongoClient(mongoclient.Cfg{
			Uri:                uri,
			AuthDbName:         viper.GetString("mongo.authDBName"),
			DbName:             viper.GetString("mongo.dbName"),
			Ssl:                viper.GetBool("mongo.enableSSL"),
			SetSafe:            true,
			PoolSizeMultiplier: 2,
			Retries:            viper.GetInt("mongo.retries"),
		})
	}

	// init chain service
	chainClient := chain.NewClient(context, &chain.ClientCfg{
		RpcUrls:   rpcUrls(),
		RateLimit: viper.GetFloat64("solana.rpcRateLimit"),
		Burst:     viper.GetInt("solana.rpcBurst"),
	})
	programId, err := solana.PublicKeyFromBase58(viper.GetString("solana.marketProgramId"))
	if err != nil {
		context.WithField("err", err).Panic("invalid solana.marketProgramId")
	}

	// off-chain metadata readers
	httpCfg := &web_resource_repository.HttpReaderCfg{
		Client:  &http.Client{},
		Timeout: viper.GetDuration("metadata.httpTimeout"),
	}
	ipfsReaders := []domain.WebResourceReaderRepository{}
	if api := viper.GetString("metadata.ipfsApi"); api != "" {
		ipfsReaders = append(ipfsReaders, web_resource_repository.NewIpfsNodeApiReaderRepo(ipfsapi.NewShell(api), viper.GetDuration("metadata.ipfsTimeout")))
	}
	for _, gateway := range viper.GetStringSlice("metadata.ipfsGateways") {
		ipfsReaders = append(ipfsReaders, web_resource_repository.NewIpfsGatewayReaderRepo(httpCfg, gateway))
	}
	webResource := web_resource_usecase.NewWebResourceUseCase(&web_resource_usecase.WebResourceUseCaseCfg{
		HttpReader:    web_resource_repository.NewHttpReaderRepo(httpCfg),
		IpfsReaders:   ipfsReaders,
		DataUriReader: web_resource_repository.NewDataUriReaderRepo(),
		ArUriReader:   web_resource_repository.NewArReaderRepo(httpCfg, viper.GetString("metadata.arGateway")),
	})

	selector := metadataParser.NewSelector(metadataParser.NewDefaultParser(metadataParser.DefaultTraitNames))
	traits := map[string]metadataParser.TraitNames{}
	if err := viper.UnmarshalKey("metadata.traits", &traits); err != nil {
		context.WithField("err", err).Panic("invalid metadata.traits")
	}
	metadataParser.InitializeSelector(selector, traits)

	// metadata is cached in process, and in redis when configured
	metadataTtl := viper.GetDuration("metadata.cacheTtl")
	metadataLayers := []cache.Service{cache.New(cache.ServiceConfig{
		Ttl:   metadataTtl,
		Pfx:   keys.PfxMetadata,
		Cache: primitive.NewPrimitive(keys.PfxMetadata, viper.GetInt("metadata.localSizeMb")),
	})}
	if redisCache != nil {
		metadataLayers = append(metadataLayers, cache.New(cache.ServiceConfig{
			Ttl:   metadataTtl,
			Pfx:   keys.PfxMetadata,
			Cache: redisProvider.NewRedis(redisCache, true),
		}))
	}
	resolver := metadata_usecase.NewMetadataUseCase(&metadata_usecase.MetadataUseCaseCfg{
		Chain:       chainClient,
		WebResource: webResource,
		Selector:    selector,
		Cache:       compoundCache.NewCompoundCache(metadataLayers),
	})

	fetcher := marketplace_usecase.NewListingDetailFetcher(&marketplace_usecase.FetcherCfg{
		Source: listing_repository.NewChainListingSource(&listing_repository.ChainListingCfg{
			Client:    chainClient,
			ProgramId: programId,
		}),
		Resolver:       resolver,
		Workers:        viper.GetInt("metadata.workers"),
		ResolveTimeout: viper.GetDuration("metadata.resolveTimeout"),
	})

	sessionCfg := cache.ServiceConfig{
		Ttl:   viper.GetDuration("session.ttl"),
		Pfx:   keys.PfxSession,
		Cache: primitive.NewPrimitive(keys.PfxSession, viper.GetInt("session.localSizeMb")),
	}
	if viper.GetString("session.provider") == "redis" {
		if redisCache == nil {
			context.Panic("session.provider redis needs redis_cache.uri")
		}
		sessionCfg.Cache = redisProvider.NewRedis(redisCache, true)
	}

	networks := chainClient.Networks()
	defaultNetwork := domain.Network(viper.GetString("solana.defaultNetwork"))
	if defaultNetwork == "" && len(networks) > 0 {
		defaultNetwork = networks[0]
	}
	refreshTimeout := viper.GetDuration("refresh.timeout")
	registry := marketplace_usecase.NewViewRegistry(&marketplace_usecase.RegistryCfg{
		Fetcher:        fetcher,
		Cache:          marketplace_usecase.NewSessionCache(cache.New(sessionCfg)),
		Facets:         marketplace_usecase.NewFacetIndexBuilder(),
		Filter:         marketplace_usecase.NewFilterEngine(),
		Networks:       networks,
		DefaultNetwork: defaultNetwork,
		RefreshTimeout: refreshTimeout,
	})

	scheduler, err := marketplace_usecase.NewScheduler(&marketplace_usecase.SchedulerCfg{
		Registry:    registry,
		Spec:        viper.GetString("refresh.schedule"),
		IdleTimeout: viper.GetDuration("session.idleTimeout"),
		Timeout:     refreshTimeout,
	})
	if err != nil {
		context.WithField("err", err).Panic("invalid refresh.schedule")
	}
	scheduler.Start()

	auth := auth_usecase.New(viper.GetString("auth.jwtSecret"), viper.GetDuration("auth.tokenTtl"))
	authMiddleware := auth_middleware.New(auth)

	hc_delivery.New(e, hc_usecase.New(hc_repo.New(mongoClient, redisCache)))
	marketplace_delivery.New(e, &marketplace_delivery.HandlerCfg{
		Registry:       registry,
		RefreshTimeout: refreshTimeout,
	})
	if mongoClient != nil {
		q := query.New(mongoClient)
		if err := nft_repository.EnsureIndexes(context, q); err != nil {
			context.WithField("err", err).Warn("nft_repository.EnsureIndexes failed")
		}
		nft_delivery.New(e, nft_usecase.New(nft_repository.New(q)), authMiddleware)
	} else {
		context.Warn("mongo.uri not set, nft records disabled")
	}

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")

	scheduler.Stop()
	sctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
	_ = log.Sync()
}
