package redis

import (
	"context"
	"errors"
	"time"

	rd "github.com/go-redis/redis/v9"
	"github.com/flowly-io/flowly/model"
	"github.com/flowly-io/flowly/persistence"
	"github.com/flowly-io/flowly/util"
)

const EXECUTION_KEY string = "EXECUTION"

type redisExecutionArchive struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.ExecutionState]
	retention      time.Duration
}

func NewRedisExecutionArchive(conf Config, retention time.Duration) *redisExecutionArchive {
	return &redisExecutionArchive{
		baseDao:        newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.ExecutionState](),
		retention:      retention,
	}
}

func (rea *redisExecutionArchive) SaveExecution(state model.ExecutionState) error {
	key := rea.baseDao.getNamespaceKey(EXECUTION_KEY, state.Id)
	ctx := context.Background()
	data, err := rea.encoderDecoder.Encode(state)
	if err != nil {
		return err
	}
	if err := rea.redisClient.Set(ctx, key, data, rea.retention).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rea *redisExecutionArchive) GetExecution(id string) (*model.ExecutionState, error) {
	key := rea.baseDao.getNamespaceKey(EXECUTION_KEY, id)
	ctx := context.Background()
	val, err := rea.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, persistence.NotFoundError{Kind: "execution", Id: id}
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return rea.encoderDecoder.Decode([]byte(val))
}
