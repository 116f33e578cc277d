package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	spvcaptable "spv_captable_back"
	"spv_captable_back/pkg/docs"
	"spv_captable_back/pkg/handler"
	"spv_captable_back/pkg/repository"
	"spv_captable_back/pkg/service"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	if err := godotenv.Load(); err != nil {
		logrus.Infof("no .env file loaded: %s", err)
	}

	if err := InitConfig(); err != nil {
		logrus.Fatalf("failed to read config: %s", err.Error())
	}

	db, err := repository.NewPostgresDB(repository.Config{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   viper.GetString("db.dbname"),
		SSLMode:  viper.GetString("db.sslmode"),
	})
	if err != nil {
		logrus.Fatalf("failed to connect to database: %s", err.Error())
	}
	if err := repository.CreateTables(db); err != nil {
		logrus.Fatalf("failed to bootstrap schema: %s", err.Error())
	}
	logrus.Info("database connected")

	repos := repository.NewRepository(db)
	services := service.NewService(repos, newCoordinator())
	handlers := handler.NewHandler(services)

	srv := new(spvcaptable.Server)
	if err := srv.Run(viper.GetString("server.port"), handlers.InitRoute()); err != nil {
		logrus.Fatalf("server stopped: %s", err)
	}
}

// newCoordinator picks the document coordinator implementation. The HTTP one
// talks to the external document service; the plaintext one is the fallback
// for environments without it.
func newCoordinator() docs.Coordinator {
	if viper.GetString("docs.mode") == "http" {
		timeout := time.Duration(viper.GetInt("docs.timeout_ms")) * time.Millisecond
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		return docs.NewHTTPCoordinator(viper.GetString("docs.base_url"), timeout)
	}
	return docs.NewPlaintextCoordinator()
}

func InitConfig() error {
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}
