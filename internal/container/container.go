package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-places-api/config"
	"github.com/oksasatya/go-places-api/internal/application"
	"github.com/oksasatya/go-places-api/internal/domain/repository"
	"github.com/oksasatya/go-places-api/internal/domain/storage"
	"github.com/oksasatya/go-places-api/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

// Store is the entity store selected by STORE_DRIVER.
type Store struct {
	Users  repository.UserRepository
	Places repository.PlaceRepository
	Tx     repository.Transactor
}

var (
	cfg         *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client
	store       Store
	files       storage.FileStore
	geocoder    application.Geocoder

	jwtManager *helpers.JWTManager

	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger { return logger }
func SetRedis(r *redis.Client) { redisClient = r }
func GetRedis() *redis.Client { return redisClient }
func SetStore(s Store) { store = s }
func GetStore() Store { return store }
func SetFiles(f storage.FileStore) { files = f }
func GetFiles() storage.FileStore { return files }
func SetGeocoder(g application.Geocoder) { geocoder = g }
func GetGeocoder() application.Geocoder { return geocoder }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager { return jwtManager }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher { return rabbitPub }
func SetES(c *elasticsearch.Client) { esClient = c }
func GetES() *elasticsearch.Client { return esClient }

// JobPublisher returns the RabbitMQ publisher, or nil when none is configured.
func JobPublisher() application.JobPublisher {
	if rabbitPub == nil {
		return nil
	}
	return rabbitPub
}
