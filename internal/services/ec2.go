package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"nelson-infra-automation/internal/models"
)

// EC2API is the subset of the EC2 client used by the power controller
type EC2API interface {
	ec2.DescribeInstancesAPIClient
	StartInstances(ctx context.Context, params *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error)
}

// InstanceController lists and starts EC2 instances
type InstanceController struct {
	client EC2API
}

// NewInstanceController creates an instance controller
func NewInstanceController(client EC2API) *InstanceController {
	return &InstanceController{client: client}
}

// ListInstances returns the state of every instance in every reservation
// visible in the client's region, following all result pages
func (c *InstanceController) ListInstances(ctx context.Context) ([]models.InstanceStateSnapshot, error) {
	var snapshots []models.InstanceStateSnapshot

	paginator := ec2.NewDescribeInstancesPaginator(c.client, &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe instances: %w", err)
		}

		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				raw := ""
				if inst.State != nil {
					raw = string(inst.State.Name)
				}
				snapshots = append(snapshots, models.InstanceStateSnapshot{
					InstanceID: aws.ToString(inst.InstanceId),
					PowerState: models.ParsePowerState(raw),
					RawState:   raw,
				})
			}
		}
	}

	return snapshots, nil
}

// StartInstances starts the given instances
func (c *InstanceController) StartInstances(ctx context.Context, instanceIDs []string) error {
	_, err := c.client.StartInstances(ctx, &ec2.StartInstancesInput{
		InstanceIds: instanceIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to start instances %v: %w", instanceIDs, err)
	}
	return nil
}
