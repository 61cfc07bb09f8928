package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Config хранит параметры подключения к графовой базе.
type Config struct {
	URI      string
	Username string
	Password string
}

// Client держит одно логическое подключение к графовой базе. Подключение
// устанавливается при первом обращении под мьютексом; повторные вызовы после
// успешного подключения — no-op. Ошибка подключения фатальна только для
// текущего вызова: флаг connected остаётся снятым и следующий вызов повторит
// инициализацию.
type Client struct {
	cfg Config

	mu        sync.Mutex
	connected bool
	driver    neo4j.DriverWithContext
}

func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg}
}

func (c *Client) ensureConnected(ctx context.Context) (neo4j.DriverWithContext, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return c.driver, nil
	}

	if c.driver == nil {
		driver, err := neo4j.NewDriverWithContext(c.cfg.URI, neo4j.BasicAuth(c.cfg.Username, c.cfg.Password, ""))
		if err != nil {
			return nil, fmt.Errorf("failed to create graph driver: %w", err)
		}
		c.driver = driver
	}

	if err := c.driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to graph store: %w", err)
	}

	c.connected = true
	return c.driver, nil
}

// Read выполняет один autocommit-запрос на чтение и собирает все строки.
func (c *Client) Read(ctx context.Context, st *Statement) ([]*neo4j.Record, error) {
	driver, err := c.ensureConnected(ctx)
	if err != nil {
		return nil, err
	}

	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, st.Cypher(), st.Parameters())
	if err != nil {
		return nil, fmt.Errorf("graph read failed: %w", err)
	}
	records, err := result.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect graph rows: %w", err)
	}
	return records, nil
}

// ReadOne возвращает первую строку результата или nil, если строк нет.
func (c *Client) ReadOne(ctx context.Context, st *Statement) (*neo4j.Record, error) {
	records, err := c.Read(ctx, st)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// Write executes a single autocommit mutation. There are no multi-statement
// transactions here: a mutation composed of several statements is not atomic
// against concurrent readers.
func (c *Client) Write(ctx context.Context, st *Statement) error {
	driver, err := c.ensureConnected(ctx)
	if err != nil {
		return err
	}

	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.Run(ctx, st.Cypher(), st.Parameters())
	if err != nil {
		return fmt.Errorf("graph write failed: %w", err)
	}
	if _, err := result.Consume(ctx); err != nil {
		return fmt.Errorf("graph write failed: %w", err)
	}
	return nil
}

// Close закрывает драйвер, если он был создан.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.driver == nil {
		return nil
	}
	err := c.driver.Close(ctx)
	c.driver = nil
	c.connected = false
	return err
}
