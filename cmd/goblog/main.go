package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hatlonely/goblog/cfg"
	"github.com/hatlonely/goblog/log"
	"github.com/hatlonely/goblog/orm"
	"github.com/hatlonely/goblog/rdb"
	"github.com/hatlonely/goblog/service"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type Config struct {
	Debug bool           `cfg:"debug"`
	DB    rdb.SQLOptions `cfg:"db"`
	Log   log.Options    `cfg:"log"`

	// Session 由 web 层使用，这里只负责加载
	Session struct {
		Secret string `cfg:"secret"`
	} `cfg:"session"`

	ORM struct {
		// Transactional 为 true 时每条写语句在显式事务中执行
		Transactional  bool `cfg:"transactional"`
		StrictRowCount bool `cfg:"strictRowCount"`
	} `cfg:"orm"`

	Service service.Options `cfg:"service"`
}

type flags struct {
	config string
	init   bool
	stats  bool
}

func main() {
	var f flags
	flag.StringVar(&f.config, "c", "conf/goblog.yaml", "config file")
	flag.BoolVar(&f.init, "init", false, "create tables if not exist")
	flag.BoolVar(&f.stats, "stats", false, "print row count of each table")
	flag.Parse()

	if err := run(context.Background(), f, os.Stdout, prometheus.DefaultRegisterer); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags, out io.Writer, registerer prometheus.Registerer) error {
	var config Config
	if err := cfg.Load(f.config, &config, cfg.WithEnvPrefix("GOBLOG_")); err != nil {
		return errors.WithMessage(err, "load config failed")
	}
	if config.Debug {
		config.Log.Level = "debug"
	}

	logger, err := log.NewLogWithOptions(&config.Log)
	if err != nil {
		return errors.WithMessage(err, "create logger failed")
	}
	log.SetDefault(logger)

	pool, err := rdb.NewSQLWithOptions(&config.DB)
	if err != nil {
		return errors.WithMessage(err, "open database failed")
	}
	defer pool.Close()

	exec := orm.NewExecutor(pool,
		orm.WithDialect(pool.Dialect()),
		orm.WithLogger(logger),
		orm.WithAutocommit(!config.ORM.Transactional),
		orm.WithMetrics(registerer),
	)

	config.Service.StrictRowCount = config.Service.StrictRowCount || config.ORM.StrictRowCount
	svc, err := service.NewServiceWithOptions(exec, &config.Service)
	if err != nil {
		return err
	}

	if f.init {
		if err := svc.CreateTables(ctx); err != nil {
			return errors.WithMessage(err, "create tables failed")
		}
		logger.Info("tables created", "driver", pool.Driver())
	}

	if f.stats {
		stats, err := svc.Stats(ctx)
		if err != nil {
			return errors.WithMessage(err, "count rows failed")
		}
		if err := json.NewEncoder(out).Encode(stats); err != nil {
			return err
		}
	}
	return nil
}
