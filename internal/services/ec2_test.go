package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nelson-infra-automation/internal/models"
)

func instance(id string, state types.InstanceStateName) types.Instance {
	return types.Instance{
		InstanceId: aws.String(id),
		State:      &types.InstanceState{Name: state},
	}
}

func TestInstanceController_ListInstancesAcrossPages(t *testing.T) {
	client := &mockEC2{}

	client.On("DescribeInstances", mock.Anything, mock.MatchedBy(func(in *ec2.DescribeInstancesInput) bool {
		return in.NextToken == nil
	})).Return(&ec2.DescribeInstancesOutput{
		Reservations: []types.Reservation{
			{Instances: []types.Instance{
				instance("i-aaa", types.InstanceStateNameRunning),
				instance("i-bbb", types.InstanceStateNameStopped),
			}},
			{Instances: []types.Instance{instance("i-ccc", types.InstanceStateNamePending)}},
		},
		NextToken: aws.String("page-2"),
	}, nil).Once()

	client.On("DescribeInstances", mock.Anything, mock.MatchedBy(func(in *ec2.DescribeInstancesInput) bool {
		return aws.ToString(in.NextToken) == "page-2"
	})).Return(&ec2.DescribeInstancesOutput{
		Reservations: []types.Reservation{
			{Instances: []types.Instance{{InstanceId: aws.String("i-ddd")}}},
		},
	}, nil).Once()

	snapshots, err := NewInstanceController(client).ListInstances(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []models.InstanceStateSnapshot{
		{InstanceID: "i-aaa", PowerState: models.PowerStateRunning, RawState: "running"},
		{InstanceID: "i-bbb", PowerState: models.PowerStateStopped, RawState: "stopped"},
		{InstanceID: "i-ccc", PowerState: models.PowerStateOther, RawState: "pending"},
		{InstanceID: "i-ddd", PowerState: models.PowerStateOther, RawState: ""},
	}, snapshots)
	client.AssertExpectations(t)
}

func TestInstanceController_ListInstancesError(t *testing.T) {
	client := &mockEC2{}
	client.On("DescribeInstances", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	_, err := NewInstanceController(client).ListInstances(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestInstanceController_StartInstances(t *testing.T) {
	client := &mockEC2{}
	ids := []string{"i-0123456789abcdef0"}
	client.On("StartInstances", mock.Anything, &ec2.StartInstancesInput{InstanceIds: ids}).
		Return(&ec2.StartInstancesOutput{}, nil)

	require.NoError(t, NewInstanceController(client).StartInstances(context.Background(), ids))
	client.AssertExpectations(t)

	failing := &mockEC2{}
	failing.On("StartInstances", mock.Anything, mock.Anything).Return(nil, errors.New("IncorrectInstanceState"))
	err := NewInstanceController(failing).StartInstances(context.Background(), ids)
	assert.ErrorContains(t, err, "IncorrectInstanceState")
}
