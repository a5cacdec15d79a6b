/*
 * Copyright 2026 the yomiyasu authors
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package levels

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-redis/redis"
	"github.com/rs/zerolog/log"
)

// Deployments that share one level dataset across several annotator
// instances keep it in redis, one key per kanji. The dataset is small
// (a few thousand keys) so the whole keyspace is pulled into a MapTable
// at startup: lookups stay O(1) in process memory and the table stays
// read-only after init, per-request redis round trips would buy nothing.

const kanjiKeyPrefix = "kanji:"

type RedisConfig struct {
	Host string
	Port int
}

func kanjiKey(r rune) string {
	return kanjiKeyPrefix + string(r)
}

// LoadRedis connects, scans the kanji keyspace and materialises it as a
// MapTable. An empty keyspace is ErrNoTable: the importer has not run,
// and annotating without a table is the fail-fast case.
func LoadRedis(conf RedisConfig) (*MapTable, error) {
	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", conf.Host, conf.Port),
	})
	defer client.Close()

	if err := client.Ping().Err(); err != nil {
		return nil, fmt.Errorf("levels: redis ping: %w", err)
	}

	var keys []string
	iter := client.Scan(0, kanjiKeyPrefix+"*", 1000).Iterator()
	for iter.Next() {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("levels: redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil, ErrNoTable
	}

	pipe := client.Pipeline()
	cmds := make(map[string]*redis.StringCmd, len(keys))
	for _, key := range keys {
		cmds[key] = pipe.Get(key)
	}
	if _, err := pipe.Exec(); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("levels: redis mget: %w", err)
	}

	entries := make(map[rune]int, len(keys))
	for key, cmd := range cmds {
		val, err := cmd.Result()
		if err == redis.Nil {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("levels: redis get %s: %w", key, err)
		}

		char := []rune(strings.TrimPrefix(key, kanjiKeyPrefix))
		n, convErr := strconv.Atoi(val)
		if len(char) != 1 || convErr != nil || n < 0 {
			log.Warn().Str("key", key).Str("value", val).Msg("skipping malformed redis entry")
			continue
		}
		entries[char[0]] = n
	}

	log.Info().Int("kanji", len(entries)).Msg("level table loaded from redis")
	return NewMapTable(entries), nil
}

// RedisWriter loads a dataset into redis with a pipelined writer, used
// by the importer. Writes are buffered and flushed in batches.
type RedisWriter struct {
	client *redis.Client
	pipe   redis.Pipeliner
	queued int
}

func NewRedisWriter(conf RedisConfig) (*RedisWriter, error) {
	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", conf.Host, conf.Port),
	})
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("levels: redis ping: %w", err)
	}
	return &RedisWriter{client: client, pipe: client.Pipeline()}, nil
}

// Put queues one kanji's level.
func (w *RedisWriter) Put(r rune, level int) {
	w.pipe.Set(kanjiKey(r), strconv.Itoa(level), 0)
	w.queued++
}

// Size is the number of queued writes since the last flush.
func (w *RedisWriter) Size() int {
	return w.queued
}

// Flush executes the queued writes.
func (w *RedisWriter) Flush() error {
	if w.queued == 0 {
		return nil
	}
	if _, err := w.pipe.Exec(); err != nil {
		return fmt.Errorf("levels: redis pipeline exec: %w", err)
	}
	w.queued = 0
	w.pipe = w.client.Pipeline()
	return nil
}

func (w *RedisWriter) Close() error {
	return w.client.Close()
}
