package config

import (
	"cmp"
	"flag"
	"fmt"
	"os"
	"strconv"
)

const (
	defaultAddr        = "localhost"
	defaultPort        = 3000
	defaultDBURI       = "mongodb://localhost:27017/bookstand"
	defaultMigratePath = "migrations"
)

type Config struct {
	Addr        string
	Debug       bool
	DBURI       string
	MigratePath string
}

func ReadConfig() (*Config, error) {
	var host, dbURI, migratePath string
	var port int
	var debug bool
	flag.StringVar(&host, "addr", defaultAddr, "flag to set the server startup host")
	flag.IntVar(&port, "port", defaultPort, "flag to set the server startup port")
	flag.BoolVar(&debug, "debug", false, "flag to set Debug logger level")
	flag.StringVar(&dbURI, "db", defaultDBURI, "mongodb connection uri")
	flag.StringVar(&migratePath, "m", defaultMigratePath, "path to migrations")
	flag.Parse()

	host = cmp.Or(os.Getenv("SERVER_HOST"), host)
	p := cmp.Or(os.Getenv("SERVER_PORT"), strconv.Itoa(port))
	port, err := strconv.Atoi(p)
	if err != nil {
		return nil, err
	}
	dbURI = cmp.Or(os.Getenv("MONGODB_URI"), dbURI)
	migratePath = cmp.Or(os.Getenv("MIGRATE_PATH"), migratePath)
	return &Config{
		Addr:        fmt.Sprintf("%s:%d", host, port),
		Debug:       debug,
		DBURI:       dbURI,
		MigratePath: migratePath,
	}, nil
}
