package main

import (
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/events"
	infraRepo "app/internal/infra/repository"
	"app/internal/infra/search"
	"app/internal/logger"
	"app/internal/media"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	//.envは無くてもよい（本番は環境変数直渡し）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.GoEnv)
	defer logger.Sync()
	log := logger.L()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Vendor{},
		&model.Department{},
		&model.Product{},
		&model.VariationType{},
		&model.VariationTypeOption{},
		&model.Variation{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.Fatal("auto migrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	vendorRepo := infraRepo.NewVendorGormRepository(gormDB)
	departmentRepo := infraRepo.NewDepartmentGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	variationRepo := infraRepo.NewVariationGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//メディアURL解決
	mediaResolver := media.NewPathResolver(cfg.MediaBaseURL)

	//イベント発行（broker未設定ならnoop）
	var publisher usecase.EventPublisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
		log.Info("kafka publisher enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	//検索インデックス（URL未設定ならDB検索のみ）
	var indexer usecase.ProductIndexer
	if cfg.ESURL != "" {
		es, err := search.NewESIndexer(cfg.ESURL, cfg.ESIndex)
		if err != nil {
			log.Fatal("elasticsearch client failed", zap.Error(err))
		}
		indexer = es
		log.Info("search index enabled", zap.String("index", cfg.ESIndex))
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, vendorRepo)
	productUC := usecase.NewProductUsecase(productRepo, departmentRepo, mediaResolver, indexer)
	departmentUC := usecase.NewDepartmentUsecase(departmentRepo)
	variationUC := usecase.NewVariationAdminUsecase(productRepo, variationRepo)
	cartFactory := usecase.NewCartFactory(cartItemRepo, productRepo, variationRepo, vendorRepo, mediaResolver)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, mediaResolver, publisher)
	paymentUC := usecase.NewPaymentUsecase(txManager, cfg.PlatformFeePct, publisher)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo, vendorRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:           handler.NewAuthHandler(authUC, cartFactory),
		Products:       handler.NewProductHandler(productUC),
		Departments:    handler.NewDepartmentHandler(departmentUC),
		VendorProducts: handler.NewVendorProductHandler(productUC, variationUC),
		Cart:           handler.NewCartHandler(cartFactory, checkoutUC),
		Payment:        handler.NewPaymentHandler(paymentUC),
		Orders:         handler.NewOrderHandler(orderUC),
	}

	//Server起動
	e := server.New(cfg, handlers)

	log.Info("server starting", zap.String("port", cfg.Port))
	if err := server.Start(e, cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
