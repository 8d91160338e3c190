package redis

import (
	"context"
	"errors"

	rd "github.com/go-redis/redis/v9"
	"github.com/flowly-io/flowly/logger"
	"github.com/flowly-io/flowly/model"
	"github.com/flowly-io/flowly/persistence"
	"github.com/flowly-io/flowly/util"
	"go.uber.org/zap"
)

const WORKFLOW_DEF string = "WORKFLOW"
const ENDPOINT_DEF string = "ENDPOINT"

type redisMetadataStorage struct {
	*baseDao
	workflowEncoderDecoder util.EncoderDecoder[model.Workflow]
	endpointEncoderDecoder util.EncoderDecoder[model.Endpoint]
}

func NewRedisMetadataStorage(conf Config) *redisMetadataStorage {
	return &redisMetadataStorage{
		baseDao:                newBaseDao(conf),
		workflowEncoderDecoder: util.NewJsonEncoderDecoder[model.Workflow](),
		endpointEncoderDecoder: util.NewJsonEncoderDecoder[model.Endpoint](),
	}
}

func (rms *redisMetadataStorage) SaveWorkflow(wf model.Workflow) error {
	key := rms.baseDao.getNamespaceKey(WORKFLOW_DEF)
	ctx := context.Background()
	data, err := rms.workflowEncoderDecoder.Encode(wf)
	if err != nil {
		return err
	}
	if err := rms.redisClient.HSet(ctx, key, []string{wf.Id, string(data)}).Err(); err != nil {
		logger.Error("error in saving workflow definition", zap.String("workflow", wf.Id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rms *redisMetadataStorage) DeleteWorkflow(id string) error {
	key := rms.baseDao.getNamespaceKey(WORKFLOW_DEF)
	ctx := context.Background()
	if err := rms.redisClient.HDel(ctx, key, id).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rms *redisMetadataStorage) GetWorkflow(id string) (*model.Workflow, error) {
	key := rms.baseDao.getNamespaceKey(WORKFLOW_DEF)
	ctx := context.Background()
	val, err := rms.redisClient.HGet(ctx, key, id).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, persistence.NotFoundError{Kind: "workflow", Id: id}
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return rms.workflowEncoderDecoder.Decode([]byte(val))
}

func (rms *redisMetadataStorage) SaveEndpoint(endpoint model.Endpoint) error {
	key := rms.baseDao.getNamespaceKey(ENDPOINT_DEF)
	ctx := context.Background()
	data, err := rms.endpointEncoderDecoder.Encode(endpoint)
	if err != nil {
		return err
	}
	if err := rms.redisClient.HSet(ctx, key, []string{endpoint.Id, string(data)}).Err(); err != nil {
		logger.Error("error in saving endpoint definition", zap.String("endpoint", endpoint.Id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rms *redisMetadataStorage) DeleteEndpoint(id string) error {
	key := rms.baseDao.getNamespaceKey(ENDPOINT_DEF)
	ctx := context.Background()
	if err := rms.redisClient.HDel(ctx, key, id).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rms *redisMetadataStorage) GetEndpoint(id string) (*model.Endpoint, error) {
	key := rms.baseDao.getNamespaceKey(ENDPOINT_DEF)
	ctx := context.Background()
	val, err := rms.redisClient.HGet(ctx, key, id).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, persistence.NotFoundError{Kind: "endpoint", Id: id}
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return rms.endpointEncoderDecoder.Decode([]byte(val))
}
