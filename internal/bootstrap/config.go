// Copyright 2025 CRE Studio Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/ibrahim77gh/cre-studio-backend/internal/notify"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/cache"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/database"
	httpx "github.com/ibrahim77gh/cre-studio-backend/pkg/http"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/log"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/queue"
)

type AppConfig struct {
	Log      log.Conf
	Http     httpx.Http
	Database database.Database
	Redis    cache.Redis
	Queue    queue.Config
	Mail     notify.Mail
}

var (
	cfg  AppConfig
	once sync.Once
)

func NewConf(confFile string) AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confFile)
		if err != nil {
			panic(fmt.Sprintf("load conf file error: %s", err))
		}
	})
	return cfg
}

// LoadConfigFile reads the TOML config and keeps watching it; changes are
// re-unmarshaled in place.
func LoadConfigFile(confFile string) (AppConfig, error) {
	config := viper.New()
	config.SetConfigFile(confFile)
	config.AddConfigPath("./conf.d")
	config.SetConfigName("config")
	config.SetConfigType("toml")
	if err := config.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read configuration file: %v", err)
	}

	config.WatchConfig()
	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("configuration changed, reloading: %s", e.Name)
		if err := config.Unmarshal(&cfg); err != nil {
			log.Errorf("failed to unmarshal configuration file: %v", err)
		}
	})
	if err := config.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration file: %v", err)
	}
	return cfg, nil
}
