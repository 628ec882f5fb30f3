package db

import (
	"path/filepath"

	"locafesta/config"
	"locafesta/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/rs/zerolog/log"
)

var conf config.Configuration

func SetConfigurations(configuration config.Configuration) {
	conf = configuration
}

// Connect abre conexão com DB (sqlite3 por padrão) e faz automigrate.
func Connect() (*gorm.DB, error) {
	database := conf.Database
	if database == "" {
		database = "sqlite3"
	}

	var (
		db  *gorm.DB
		err error
	)

	if database == "postgres" || database == "postgresql" {
		log.Info().Msg("utilizando conexão com o postgresql")
		path := "host=" + conf.DbHost + " port=" + conf.DbPort
		path += " user=" + conf.DbUser + " dbname=" + conf.DbName
		path += " password=" + conf.DbPass
		db, err = gorm.Open("postgres", path)
	} else {
		log.Info().Str("path", conf.DbPath).Msg("utilizando conexão com o sqlite3")
		dir := filepath.Dir(conf.DbPath)
		db, err = gorm.Open("sqlite3", filepath.Join(dir, filepath.Base(conf.DbPath)))
	}

	if err != nil {
		log.Error().Err(err).Msg("erro ao conectar no banco")
		return nil, err
	}

	return db, AutoMigrate(db)
}

// AutoMigrate cria/atualiza as tabelas. Exposta em separado para os testes
// subirem um sqlite em memória com o mesmo schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Cliente{},
		&models.Evento{},
		&models.TimelineEntry{},
	).Error
}
