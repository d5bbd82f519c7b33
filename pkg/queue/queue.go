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

package queue

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
)

// queue priorities
const (
	Critical = "critical"
	Default  = "default"
	Low      = "low"
)

type Config struct {
	Addr        string `mapstructure:"addr"`
	Password    string `mapstructure:"password"`
	DB          int    `mapstructure:"db"`
	Concurrency int    `mapstructure:"concurrency"`
}

func (c *Config) redisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: c.Addr, Password: c.Password, DB: c.DB}
}

// Client publishes tasks. Enqueue is fire-and-forget: callers log failures
// and move on, they never block domain state on delivery.
type Client struct {
	client *asynq.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New("queue redis addr is required")
	}
	return &Client{client: asynq.NewClient(cfg.redisOpt())}, nil
}

func (c *Client) Enqueue(taskType string, payload []byte, opts ...asynq.Option) error {
	_, err := c.client.Enqueue(asynq.NewTask(taskType, payload), opts...)
	return errors.Wrapf(err, "failed to enqueue %s", taskType)
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Server consumes tasks registered on its mux.
type Server struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewServer(cfg Config) *Server {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}
	server := asynq.NewServer(cfg.redisOpt(), asynq.Config{
		Concurrency:     concurrency,
		Queues:          map[string]int{Critical: 6, Default: 3, Low: 1},
		ShutdownTimeout: 10 * time.Second,
	})
	return &Server{server: server, mux: asynq.NewServeMux()}
}

func (s *Server) Handle(taskType string, handler asynq.Handler) {
	s.mux.Handle(taskType, handler)
}

func (s *Server) HandleFunc(taskType string, handler asynq.HandlerFunc) {
	s.mux.HandleFunc(taskType, handler)
}

func (s *Server) Start() error {
	return s.server.Start(s.mux)
}

func (s *Server) Shutdown() {
	s.server.Shutdown()
}

// Scheduler registers cron-style periodic tasks.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(cfg Config) *Scheduler {
	return &Scheduler{scheduler: asynq.NewScheduler(cfg.redisOpt(), nil)}
}

func (s *Scheduler) Register(cronspec, taskType string, payload []byte, opts ...asynq.Option) error {
	_, err := s.scheduler.Register(cronspec, asynq.NewTask(taskType, payload), opts...)
	return errors.Wrapf(err, "failed to register periodic task %s", taskType)
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
