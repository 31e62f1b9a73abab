package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/soundseek/api/internal/domain"
)

// UserRepo provides typed DynamoDB operations for the users table.
// It owns User records exclusively; reset-token state lives on the user item
// itself, which makes "at most one outstanding reset token per user" a
// property of the schema rather than something to reconcile.
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

func (r *UserRepo) Put(ctx context.Context, u *domain.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by exact email match via the email-index GSI.
// The comparison is case-sensitive, exactly as stored.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.queryGSI(ctx, "email-index", "email", email)
}

// GetByResetToken looks up the user holding the given pending reset token.
// Expiry is not checked here; the consume step enforces it atomically.
func (r *UserRepo) GetByResetToken(ctx context.Context, token string) (*domain.User, error) {
	return r.queryGSI(ctx, "reset_token-index", "reset_token", token)
}

func (r *UserRepo) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("user_id", userID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// SetResetToken writes a new pending reset token and its expiry in a single
// UpdateItem. Any previously pending token is overwritten and becomes
// permanently unusable, expired or not.
func (r *UserRepo) SetResetToken(ctx context.Context, userID, token string, expiresAt int64) error {
	return r.Update(ctx, userID, map[string]interface{}{
		fieldResetToken:       token,
		fieldResetTokenExpiry: expiresAt,
	})
}

// ConsumePasswordReset applies the new password hash and clears the reset
// fields as one conditional write. The condition requires the stored token to
// equal the presented one and its expiry to be strictly in the future, so
// under concurrent confirms at most one caller's write goes through; every
// other outcome (wrong token, expired, already consumed, superseded) fails
// the condition identically.
func (r *UserRepo) ConsumePasswordReset(ctx context.Context, userID, resetToken, newHash string, now time.Time) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("user_id", userID),
		UpdateExpression:    aws.String("SET #ph = :h, #ua = :u REMOVE #rt, #re"),
		ConditionExpression: aws.String("#rt = :tok AND #re > :now"),
		ExpressionAttributeNames: map[string]string{
			"#ph": fieldPasswordHash,
			"#ua": "updated_at",
			"#rt": fieldResetToken,
			"#re": fieldResetTokenExpiry,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":h":   &types.AttributeValueMemberS{Value: newHash},
			":u":   &types.AttributeValueMemberS{Value: now.UTC().Format(time.RFC3339)},
			":tok": &types.AttributeValueMemberS{Value: resetToken},
			":now": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", now.Unix())},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("reset token no longer pending: %w", domain.ErrNotFound)
		}
		return err
	}
	return nil
}

func (r *UserRepo) queryGSI(ctx context.Context, index, attr, value string) (*domain.User, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &u); err != nil {
		return nil, err
	}
	return &u, nil
}
