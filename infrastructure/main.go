package main

import (
	"fmt"
	"log"
	"runtime/debug"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/apigatewayv2"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/cloudwatch"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/cognito"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/dynamodb"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/lambda"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/s3"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/sns"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/sqs"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ssm"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

const lambdaAssumeRolePolicy = `{
	"Version": "2012-10-17",
	"Statement": [{
		"Effect": "Allow",
		"Principal": {"Service": "lambda.amazonaws.com"},
		"Action": "sts:AssumeRole"
	}]
}`

func main() {
	pulumi.Run(func(ctx *pulumi.Context) (err error) {
		// Add panic recovery with detailed logging
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC RECOVERED: %v", r)
				log.Printf("Stack trace:\n%s", debug.Stack())
				err = fmt.Errorf("panic occurred: %v", r)
			}
		}()

		log.Printf("Starting Pulumi infrastructure deployment...")
		// Load configuration
		cfg := config.New(ctx, "")

		log.Printf("Loading configuration values...")
		stage := cfg.Get("stage")
		if stage == "" {
			stage = "dev"
			log.Printf("Using default stage: %s", stage)
		}

		logRetentionDays := cfg.GetInt("logRetentionDays")
		if logRetentionDays == 0 {
			logRetentionDays = 7
			log.Printf("Using default logRetentionDays: %d", logRetentionDays)
		}

		enableXRay := cfg.GetBool("enableXRay")
		log.Printf("X-Ray tracing enabled: %v", enableXRay)

		feedbackRetentionDays := cfg.GetInt("feedbackRetentionDays")
		if feedbackRetentionDays == 0 {
			feedbackRetentionDays = 365
			log.Printf("Using default feedbackRetentionDays: %d", feedbackRetentionDays)
		}

		log.Printf("Configuration loaded successfully: stage=%s, logRetentionDays=%d, enableXRay=%v", stage, logRetentionDays, enableXRay)

		// Common tags
		commonTags := pulumi.StringMap{
			"Project":     pulumi.String("usecase-hub"),
			"Stage":       pulumi.String(stage),
			"ManagedBy":   pulumi.String("pulumi"),
			"Environment": pulumi.String(stage),
		}

		tracingMode := pulumi.String(map[bool]string{true: "Active", false: "PassThrough"}[enableXRay])

		// ========================================
		// S3 Bucket for Feedback Records
		// ========================================
		log.Printf("Creating S3 bucket for feedback records...")
		feedbackBucket, err := s3.NewBucket(ctx, fmt.Sprintf("usecase-hub-feedback-%s", stage), &s3.BucketArgs{
			Bucket:       pulumi.String(fmt.Sprintf("usecase-hub-feedback-%s", stage)),
			ForceDestroy: pulumi.Bool(true),
			Tags:         commonTags,
		})
		if err != nil {
			return fmt.Errorf("failed to create feedback S3 bucket: %w", err)
		}

		// Block public access to the feedback bucket
		_, err = s3.NewBucketPublicAccessBlock(ctx, fmt.Sprintf("usecase-hub-feedback-pab-%s", stage), &s3.BucketPublicAccessBlockArgs{
			Bucket:                feedbackBucket.ID(),
			BlockPublicAcls:       pulumi.Bool(true),
			BlockPublicPolicy:     pulumi.Bool(true),
			IgnorePublicAcls:      pulumi.Bool(true),
			RestrictPublicBuckets: pulumi.Bool(true),
		})
		if err != nil {
			return fmt.Errorf("failed to create feedback bucket public access block: %w", err)
		}

		// Configure lifecycle policy for feedback records
		_, err = s3.NewBucketLifecycleConfigurationV2(ctx, fmt.Sprintf("usecase-hub-feedback-lifecycle-%s", stage), &s3.BucketLifecycleConfigurationV2Args{
			Bucket: feedbackBucket.ID(),
			Rules: s3.BucketLifecycleConfigurationV2RuleArray{
				&s3.BucketLifecycleConfigurationV2RuleArgs{
					Id:     pulumi.String("expire-old-feedback"),
					Status: pulumi.String("Enabled"),
					Expiration: &s3.BucketLifecycleConfigurationV2RuleExpirationArgs{
						Days: pulumi.Int(feedbackRetentionDays),
					},
				},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create feedback bucket lifecycle policy: %w", err)
		}

		// ========================================
		// DynamoDB Table for Use Case Configurations
		// ========================================
		log.Printf("Creating DynamoDB use case config table...")
		llmConfigTable, err := dynamodb.NewTable(ctx, fmt.Sprintf("usecase-hub-llm-config-%s", stage), &dynamodb.TableArgs{
			Name:        pulumi.String(fmt.Sprintf("usecase-hub-llm-config-%s", stage)),
			BillingMode: pulumi.String("PAY_PER_REQUEST"),
			HashKey:     pulumi.String("key"),
			Attributes: dynamodb.TableAttributeArray{
				&dynamodb.TableAttributeArgs{
					Name: pulumi.String("key"),
					Type: pulumi.String("S"),
				},
			},
			PointInTimeRecovery: &dynamodb.TablePointInTimeRecoveryArgs{
				Enabled: pulumi.Bool(true),
			},
			Tags: commonTags,
		})
		if err != nil {
			return err
		}

		// ========================================
		// DynamoDB Table for Model Info
		// ========================================
		modelInfoTable, err := dynamodb.NewTable(ctx, fmt.Sprintf("usecase-hub-model-info-%s", stage), &dynamodb.TableArgs{
			Name:        pulumi.String(fmt.Sprintf("usecase-hub-model-info-%s", stage)),
			BillingMode: pulumi.String("PAY_PER_REQUEST"),
			HashKey:     pulumi.String("UseCase"),
			RangeKey:    pulumi.String("SortKey"),
			Attributes: dynamodb.TableAttributeArray{
				&dynamodb.TableAttributeArgs{
					Name: pulumi.String("UseCase"),
					Type: pulumi.String("S"),
				},
				&dynamodb.TableAttributeArgs{
					Name: pulumi.String("SortKey"),
					Type: pulumi.String("S"),
				},
			},
			Tags: commonTags,
		})
		if err != nil {
			return err
		}

		// ========================================
		// SNS Topic and SQS Archive Queue for Feedback Events
		// ========================================

		feedbackTopic, err := sns.NewTopic(ctx, fmt.Sprintf("usecase-hub-feedback-events-%s", stage), &sns.TopicArgs{
			Name: pulumi.String(fmt.Sprintf("usecase-hub-feedback-events-%s", stage)),
			Tags: commonTags,
		})
		if err != nil {
			return err
		}

		feedbackArchiveDlq, err := sqs.NewQueue(ctx, fmt.Sprintf("usecase-hub-feedback-archive-dlq-%s", stage), &sqs.QueueArgs{
			Name:                    pulumi.String(fmt.Sprintf("usecase-hub-feedback-archive-dlq-%s", stage)),
			MessageRetentionSeconds: pulumi.Int(1209600), // 14 days
			Tags:                    commonTags,
		})
		if err != nil {
			return err
		}

		feedbackArchiveQueue, err := sqs.NewQueue(ctx, fmt.Sprintf("usecase-hub-feedback-archive-%s", stage), &sqs.QueueArgs{
			Name:                     pulumi.String(fmt.Sprintf("usecase-hub-feedback-archive-%s", stage)),
			VisibilityTimeoutSeconds: pulumi.Int(60),
			MessageRetentionSeconds:  pulumi.Int(1209600), // 14 days
			RedrivePolicy: feedbackArchiveDlq.Arn.ApplyT(func(arn string) string {
				return fmt.Sprintf(`{"deadLetterTargetArn":"%s","maxReceiveCount":3}`, arn)
			}).(pulumi.StringOutput),
			Tags: commonTags,
		})
		if err != nil {
			return err
		}

		// Feedback Topic -> Archive Queue
		_, err = sns.NewTopicSubscription(ctx, fmt.Sprintf("usecase-hub-feedback-archive-subscription-%s", stage), &sns.TopicSubscriptionArgs{
			Topic:              feedbackTopic.Arn,
			Protocol:           pulumi.String("sqs"),
			Endpoint:           feedbackArchiveQueue.Arn,
			RawMessageDelivery: pulumi.Bool(true),
		})
		if err != nil {
			return err
		}

		// Archive Queue Policy
		_, err = sqs.NewQueuePolicy(ctx, fmt.Sprintf("usecase-hub-feedback-archive-queue-policy-%s", stage), &sqs.QueuePolicyArgs{
			QueueUrl: feedbackArchiveQueue.Url,
			Policy: pulumi.All(feedbackArchiveQueue.Arn, feedbackTopic.Arn).ApplyT(func(args []interface{}) string {
				queueArn := args[0].(string)
				topicArn := args[1].(string)
				return fmt.Sprintf(`{
					"Version": "2012-10-17",
					"Statement": [{
						"Effect": "Allow",
						"Principal": {"Service": "sns.amazonaws.com"},
						"Action": "sqs:SendMessage",
						"Resource": "%s",
						"Condition": {
							"ArnEquals": {"aws:SourceArn": "%s"}
						}
					}]
				}`, queueArn, topicArn)
			}).(pulumi.StringOutput),
		})
		if err != nil {
			return err
		}

		// ========================================
		// Cognito User Pool
		// ========================================
		log.Printf("Creating Cognito user pool...")
		userPool, err := cognito.NewUserPool(ctx, fmt.Sprintf("usecase-hub-users-%s", stage), &cognito.UserPoolArgs{
			Name: pulumi.String(fmt.Sprintf("usecase-hub-users-%s", stage)),
			PasswordPolicy: &cognito.UserPoolPasswordPolicyArgs{
				MinimumLength:    pulumi.Int(12),
				RequireLowercase: pulumi.Bool(true),
				RequireUppercase: pulumi.Bool(true),
				RequireNumbers:   pulumi.Bool(true),
				RequireSymbols:   pulumi.Bool(false),
			},
			AdminCreateUserConfig: &cognito.UserPoolAdminCreateUserConfigArgs{
				AllowAdminCreateUserOnly: pulumi.Bool(true),
			},
			Tags: commonTags,
		})
		if err != nil {
			return err
		}

		userPoolClient, err := cognito.NewUserPoolClient(ctx, fmt.Sprintf("usecase-hub-web-client-%s", stage), &cognito.UserPoolClientArgs{
			Name:       pulumi.String(fmt.Sprintf("usecase-hub-web-client-%s", stage)),
			UserPoolId: userPool.ID(),
			ExplicitAuthFlows: pulumi.StringArray{
				pulumi.String("ALLOW_USER_SRP_AUTH"),
				pulumi.String("ALLOW_REFRESH_TOKEN_AUTH"),
			},
			GenerateSecret: pulumi.Bool(false),
		})
		if err != nil {
			return err
		}

		// ========================================
		// IAM Roles and Policies
		// ========================================

		// Use Case Details Lambda Role
		detailsRole, err := iam.NewRole(ctx, fmt.Sprintf("usecase-hub-details-role-%s", stage), &iam.RoleArgs{
			Name:             pulumi.String(fmt.Sprintf("usecase-hub-details-role-%s", stage)),
			AssumeRolePolicy: pulumi.String(lambdaAssumeRolePolicy),
			Tags:             commonTags,
		})
		if err != nil {
			return err
		}

		_, err = iam.NewRolePolicy(ctx, fmt.Sprintf("usecase-hub-details-policy-%s", stage), &iam.RolePolicyArgs{
			Role: detailsRole.Name,
			Policy: llmConfigTable.Arn.ApplyT(func(tableArn string) string {
				return fmt.Sprintf(`{
					"Version": "2012-10-17",
					"Statement": [
						{
							"Effect": "Allow",
							"Action": ["dynamodb:GetItem"],
							"Resource": "%s"
						},
						{
							"Effect": "Allow",
							"Action": ["cloudwatch:PutMetricData"],
							"Resource": "*"
						},
						{
							"Effect": "Allow",
							"Action": [
								"logs:CreateLogGroup",
								"logs:CreateLogStream",
								"logs:PutLogEvents"
							],
							"Resource": "arn:aws:logs:*:*:*"
						},
						{
							"Effect": "Allow",
							"Action": [
								"xray:PutTraceSegments",
								"xray:PutTelemetryRecords"
							],
							"Resource": "*"
						}
					]
				}`, tableArn)
			}).(pulumi.StringOutput),
		})
		if err != nil {
			return err
		}

		// Model Info Lambda Role
		modelInfoRole, err := iam.NewRole(ctx, fmt.Sprintf("usecase-hub-model-info-role-%s", stage), &iam.RoleArgs{
			Name:             pulumi.String(fmt.Sprintf("usecase-hub-model-info-role-%s", stage)),
			AssumeRolePolicy: pulumi.String(lambdaAssumeRolePolicy),
			Tags:             commonTags,
		})
		if err != nil {
			return err
		}

		_, err = iam.NewRolePolicy(ctx, fmt.Sprintf("usecase-hub-model-info-policy-%s", stage), &iam.RolePolicyArgs{
			Role: modelInfoRole.Name,
			Policy: modelInfoTable.Arn.ApplyT(func(tableArn string) string {
				return fmt.Sprintf(`{
					"Version": "2012-10-17",
					"Statement": [
						{
							"Effect": "Allow",
							"Action": [
								"dynamodb:GetItem",
								"dynamodb:Query"
							],
							"Resource": ["%s", "%s/*"]
						},
						{
							"Effect": "Allow",
							"Action": ["cloudwatch:PutMetricData"],
							"Resource": "*"
						},
						{
							"Effect": "Allow",
							"Action": [
								"logs:CreateLogGroup",
								"logs:CreateLogStream",
								"logs:PutLogEvents"
							],
							"Resource": "arn:aws:logs:*:*:*"
						},
						{
							"Effect": "Allow",
							"Action": [
								"xray:PutTraceSegments",
								"xray:PutTelemetryRecords"
							],
							"Resource": "*"
						}
					]
				}`, tableArn, tableArn)
			}).(pulumi.StringOutput),
		})
		if err != nil {
			return err
		}

		// Feedback Lambda Role
		feedbackRole, err := iam.NewRole(ctx, fmt.Sprintf("usecase-hub-feedback-role-%s", stage), &iam.RoleArgs{
			Name:             pulumi.String(fmt.Sprintf("usecase-hub-feedback-role-%s", stage)),
			AssumeRolePolicy: pulumi.String(lambdaAssumeRolePolicy),
			Tags:             commonTags,
		})
		if err != nil {
			return err
		}

		_, err = iam.NewRolePolicy(ctx, fmt.Sprintf("usecase-hub-feedback-policy-%s", stage), &iam.RolePolicyArgs{
			Role: feedbackRole.Name,
			Policy: pulumi.All(llmConfigTable.Arn, feedbackBucket.Arn, feedbackTopic.Arn).ApplyT(func(args []interface{}) string {
				tableArn := args[0].(string)
				bucketArn := args[1].(string)
				topicArn := args[2].(string)
				return fmt.Sprintf(`{
					"Version": "2012-10-17",
					"Statement": [
						{
							"Effect": "Allow",
							"Action": ["dynamodb:GetItem"],
							"Resource": "%s"
						},
						{
							"Effect": "Allow",
							"Action": ["s3:PutObject"],
							"Resource": "%s/feedback/*"
						},
						{
							"Effect": "Allow",
							"Action": ["sns:Publish"],
							"Resource": "%s"
						},
						{
							"Effect": "Allow",
							"Action": ["secretsmanager:GetSecretValue"],
							"Resource": "arn:aws:secretsmanager:*:*:secret:usecase-hub/*"
						},
						{
							"Effect": "Allow",
							"Action": ["cloudwatch:PutMetricData"],
							"Resource": "*"
						},
						{
							"Effect": "Allow",
							"Action": [
								"logs:CreateLogGroup",
								"logs:CreateLogStream",
								"logs:PutLogEvents"
							],
							"Resource": "arn:aws:logs:*:*:*"
						},
						{
							"Effect": "Allow",
							"Action": [
								"xray:PutTraceSegments",
								"xray:PutTelemetryRecords"
							],
							"Resource": "*"
						}
					]
				}`, tableArn, bucketArn, topicArn)
			}).(pulumi.StringOutput),
		})
		if err != nil {
			return err
		}

		// Prompt Preview Lambda Role
		previewRole, err := iam.NewRole(ctx, fmt.Sprintf("usecase-hub-preview-role-%s", stage), &iam.RoleArgs{
			Name:             pulumi.String(fmt.Sprintf("usecase-hub-preview-role-%s", stage)),
			AssumeRolePolicy: pulumi.String(lambdaAssumeRolePolicy),
			Tags:             commonTags,
		})
		if err != nil {
			return err
		}

		_, err = iam.NewRolePolicy(ctx, fmt.Sprintf("usecase-hub-preview-policy-%s", stage), &iam.RolePolicyArgs{
			Role: previewRole.Name,
			Policy: llmConfigTable.Arn.ApplyT(func(tableArn string) string {
				return fmt.Sprintf(`{
					"Version": "2012-10-17",
					"Statement": [
						{
							"Effect": "Allow",
							"Action": ["dynamodb:GetItem"],
							"Resource": "%s"
						},
						{
							"Effect": "Allow",
							"Action": [
								"bedrock:InvokeModel",
								"bedrock:InvokeModelWithResponseStream"
							],
							"Resource": "*"
						},
						{
							"Effect": "Allow",
							"Action": ["cloudwatch:PutMetricData"],
							"Resource": "*"
						},
						{
							"Effect": "Allow",
							"Action": [
								"logs:CreateLogGroup",
								"logs:CreateLogStream",
								"logs:PutLogEvents"
							],
							"Resource": "arn:aws:logs:*:*:*"
						},
						{
							"Effect": "Allow",
							"Action": [
								"xray:PutTraceSegments",
								"xray:PutTelemetryRecords"
							],
							"Resource": "*"
						}
					]
				}`, tableArn)
			}).(pulumi.StringOutput),
		})
		if err != nil {
			return err
		}

		// ========================================
		// CloudWatch Log Groups
		// ========================================
		detailsLogGroup, err := cloudwatch.NewLogGroup(ctx, fmt.Sprintf("usecase-hub-details-logs-%s", stage), &cloudwatch.LogGroupArgs{
			Name:            pulumi.String(fmt.Sprintf("/aws/lambda/usecase-hub-details-%s", stage)),
			RetentionInDays: pulumi.Int(logRetentionDays),
			Tags:            commonTags,
		})
		if err != nil {
			return err
		}

		modelInfoLogGroup, err := cloudwatch.NewLogGroup(ctx, fmt.Sprintf("usecase-hub-model-info-logs-%s", stage), &cloudwatch.LogGroupArgs{
			Name:            pulumi.String(fmt.Sprintf("/aws/lambda/usecase-hub-model-info-%s", stage)),
			RetentionInDays: pulumi.Int(logRetentionDays),
			Tags:            commonTags,
		})
		if err != nil {
			return err
		}

		feedbackLogGroup, err := cloudwatch.NewLogGroup(ctx, fmt.Sprintf("usecase-hub-feedback-logs-%s", stage), &cloudwatch.LogGroupArgs{
			Name:            pulumi.String(fmt.Sprintf("/aws/lambda/usecase-hub-feedback-%s", stage)),
			RetentionInDays: pulumi.Int(logRetentionDays),
			Tags:            commonTags,
		})
		if err != nil {
			return err
		}

		previewLogGroup, err := cloudwatch.NewLogGroup(ctx, fmt.Sprintf("usecase-hub-preview-logs-%s", stage), &cloudwatch.LogGroupArgs{
			Name:            pulumi.String(fmt.Sprintf("/aws/lambda/usecase-hub-preview-%s", stage)),
			RetentionInDays: pulumi.Int(logRetentionDays),
			Tags:            commonTags,
		})
		if err != nil {
			return err
		}

		// ========================================
		// Lambda Functions
		// ========================================

		metricsNamespace := fmt.Sprintf("UseCaseHub/%s", stage)
		signingSecretName := fmt.Sprintf("usecase-hub/feedback/signing-key-%s", stage)

		commonEnv := func(extra pulumi.StringMap) pulumi.StringMap {
			env := pulumi.StringMap{
				"STAGE":             pulumi.String(stage),
				"METRICS_NAMESPACE": pulumi.String(metricsNamespace),
			}
			for k, v := range extra {
				env[k] = v
			}
			return env
		}

		// Use Case Details Lambda
		detailsLambda, err := lambda.NewFunction(ctx, fmt.Sprintf("usecase-hub-details-%s", stage), &lambda.FunctionArgs{
			Name:    pulumi.String(fmt.Sprintf("usecase-hub-details-%s", stage)),
			Runtime: pulumi.String("provided.al2"),
			Role:    detailsRole.Arn,
			Handler: pulumi.String("bootstrap"),
			Code:    pulumi.NewFileArchive("../build/usecase-details.zip"),
			Environment: &lambda.FunctionEnvironmentArgs{
				Variables: commonEnv(pulumi.StringMap{
					"LLM_CONFIG_TABLE": llmConfigTable.Name,
				}),
			},
			MemorySize: pulumi.Int(256),
			Timeout:    pulumi.Int(30),
			TracingConfig: &lambda.FunctionTracingConfigArgs{
				Mode: tracingMode,
			},
			Tags: commonTags,
		}, pulumi.DependsOn([]pulumi.Resource{detailsLogGroup}))
		if err != nil {
			return err
		}

		// Model Info Lambda
		modelInfoLambda, err := lambda.NewFunction(ctx, fmt.Sprintf("usecase-hub-model-info-%s", stage), &lambda.FunctionArgs{
			Name:    pulumi.String(fmt.Sprintf("usecase-hub-model-info-%s", stage)),
			Runtime: pulumi.String("provided.al2"),
			Role:    modelInfoRole.Arn,
			Handler: pulumi.String("bootstrap"),
			Code:    pulumi.NewFileArchive("../build/model-info.zip"),
			Environment: &lambda.FunctionEnvironmentArgs{
				Variables: commonEnv(pulumi.StringMap{
					"MODEL_INFO_TABLE_NAME": modelInfoTable.Name,
				}),
			},
			MemorySize: pulumi.Int(256),
			Timeout:    pulumi.Int(30),
			TracingConfig: &lambda.FunctionTracingConfigArgs{
				Mode: tracingMode,
			},
			Tags: commonTags,
		}, pulumi.DependsOn([]pulumi.Resource{modelInfoLogGroup}))
		if err != nil {
			return err
		}

		// Feedback Lambda
		feedbackLambda, err := lambda.NewFunction(ctx, fmt.Sprintf("usecase-hub-feedback-%s", stage), &lambda.FunctionArgs{
			Name:    pulumi.String(fmt.Sprintf("usecase-hub-feedback-%s", stage)),
			Runtime: pulumi.String("provided.al2"),
			Role:    feedbackRole.Arn,
			Handler: pulumi.String("bootstrap"),
			Code:    pulumi.NewFileArchive("../build/feedback.zip"),
			Environment: &lambda.FunctionEnvironmentArgs{
				Variables: commonEnv(pulumi.StringMap{
					"LLM_CONFIG_TABLE":             llmConfigTable.Name,
					"FEEDBACK_BUCKET_NAME":         feedbackBucket.ID(),
					"FEEDBACK_TOPIC_ARN":           feedbackTopic.Arn,
					"FEEDBACK_SIGNING_SECRET_NAME": pulumi.String(signingSecretName),
				}),
			},
			MemorySize: pulumi.Int(256),
			Timeout:    pulumi.Int(30),
			TracingConfig: &lambda.FunctionTracingConfigArgs{
				Mode: tracingMode,
			},
			Tags: commonTags,
		}, pulumi.DependsOn([]pulumi.Resource{feedbackLogGroup}))
		if err != nil {
			return err
		}

		// Prompt Preview Lambda
		previewLambda, err := lambda.NewFunction(ctx, fmt.Sprintf("usecase-hub-preview-%s", stage), &lambda.FunctionArgs{
			Name:    pulumi.String(fmt.Sprintf("usecase-hub-preview-%s", stage)),
			Runtime: pulumi.String("provided.al2"),
			Role:    previewRole.Arn,
			Handler: pulumi.String("bootstrap"),
			Code:    pulumi.NewFileArchive("../build/prompt-preview.zip"),
			Environment: &lambda.FunctionEnvironmentArgs{
				Variables: commonEnv(pulumi.StringMap{
					"LLM_CONFIG_TABLE": llmConfigTable.Name,
				}),
			},
			MemorySize: pulumi.Int(512),
			Timeout:    pulumi.Int(60),
			TracingConfig: &lambda.FunctionTracingConfigArgs{
				Mode: tracingMode,
			},
			Tags: commonTags,
		}, pulumi.DependsOn([]pulumi.Resource{previewLogGroup}))
		if err != nil {
			return err
		}

		// ========================================
		// API Gateway HTTP API
		// ========================================

		httpApi, err := apigatewayv2.NewApi(ctx, fmt.Sprintf("usecase-hub-api-%s", stage), &apigatewayv2.ApiArgs{
			Name:         pulumi.String(fmt.Sprintf("usecase-hub-api-%s", stage)),
			ProtocolType: pulumi.String("HTTP"),
			Description:  pulumi.String("HTTP API for the use case deployment platform"),
			CorsConfiguration: &apigatewayv2.ApiCorsConfigurationArgs{
				AllowOrigins: pulumi.StringArray{pulumi.String("*")},
				AllowMethods: pulumi.StringArray{pulumi.String("GET"), pulumi.String("POST"), pulumi.String("OPTIONS")},
				AllowHeaders: pulumi.StringArray{pulumi.String("Content-Type"), pulumi.String("Authorization")},
			},
			Tags: commonTags,
		})
		if err != nil {
			return err
		}

		// JWT authorizer backed by the Cognito user pool
		jwtAuthorizer, err := apigatewayv2.NewAuthorizer(ctx, fmt.Sprintf("usecase-hub-jwt-authorizer-%s", stage), &apigatewayv2.AuthorizerArgs{
			ApiId:          httpApi.ID(),
			AuthorizerType: pulumi.String("JWT"),
			Name:           pulumi.String(fmt.Sprintf("usecase-hub-jwt-authorizer-%s", stage)),
			IdentitySources: pulumi.StringArray{
				pulumi.String("$request.header.Authorization"),
			},
			JwtConfiguration: &apigatewayv2.AuthorizerJwtConfigurationArgs{
				Audiences: pulumi.StringArray{userPoolClient.ID().ToStringOutput()},
				Issuer: userPool.Endpoint.ApplyT(func(endpoint string) string {
					return fmt.Sprintf("https://%s", endpoint)
				}).(pulumi.StringOutput),
			},
		})
		if err != nil {
			return err
		}

		type apiRoute struct {
			name       string
			routeKey   string
			fn         *lambda.Function
			authorized bool
		}

		routes := []apiRoute{
			{"details", "GET /deployments/{useCaseConfigKey}", detailsLambda, true},
			{"model-info-provider", "GET /model-info/{useCaseType}/{providerName}", modelInfoLambda, true},
			{"model-info-model", "GET /model-info/{useCaseType}/{providerName}/{modelId}", modelInfoLambda, true},
			{"feedback", "POST /feedback", feedbackLambda, false},
			{"preview", "POST /deployments/{useCaseConfigKey}/preview", previewLambda, true},
		}

		integrations := map[*lambda.Function]*apigatewayv2.Integration{}
		for _, r := range routes {
			if _, ok := integrations[r.fn]; !ok {
				_, err = lambda.NewPermission(ctx, fmt.Sprintf("usecase-hub-%s-apigw-permission-%s", r.name, stage), &lambda.PermissionArgs{
					Action:    pulumi.String("lambda:InvokeFunction"),
					Function:  r.fn.Name,
					Principal: pulumi.String("apigateway.amazonaws.com"),
					SourceArn: httpApi.ExecutionArn.ApplyT(func(arn string) string {
						return fmt.Sprintf("%s/*/*", arn)
					}).(pulumi.StringOutput),
				})
				if err != nil {
					return err
				}

				integration, ierr := apigatewayv2.NewIntegration(ctx, fmt.Sprintf("usecase-hub-%s-integration-%s", r.name, stage), &apigatewayv2.IntegrationArgs{
					ApiId:                httpApi.ID(),
					IntegrationType:      pulumi.String("AWS_PROXY"),
					IntegrationUri:       r.fn.Arn,
					IntegrationMethod:    pulumi.String("POST"),
					PayloadFormatVersion: pulumi.String("2.0"),
				})
				if ierr != nil {
					return ierr
				}
				integrations[r.fn] = integration
			}

			routeArgs := &apigatewayv2.RouteArgs{
				ApiId:    httpApi.ID(),
				RouteKey: pulumi.String(r.routeKey),
				Target: integrations[r.fn].ID().ApplyT(func(id string) string {
					return fmt.Sprintf("integrations/%s", id)
				}).(pulumi.StringOutput),
			}
			if r.authorized {
				routeArgs.AuthorizationType = pulumi.String("JWT")
				routeArgs.AuthorizerId = jwtAuthorizer.ID()
			}
			_, err = apigatewayv2.NewRoute(ctx, fmt.Sprintf("usecase-hub-%s-route-%s", r.name, stage), routeArgs)
			if err != nil {
				return err
			}
		}

		// API Gateway Stage (auto-deploy)
		_, err = apigatewayv2.NewStage(ctx, fmt.Sprintf("usecase-hub-api-stage-%s", stage), &apigatewayv2.StageArgs{
			ApiId:      httpApi.ID(),
			Name:       pulumi.String("$default"),
			AutoDeploy: pulumi.Bool(true),
			AccessLogSettings: &apigatewayv2.StageAccessLogSettingsArgs{
				DestinationArn: detailsLogGroup.Arn,
				Format:         pulumi.String(`{"requestId":"$context.requestId","ip":"$context.identity.sourceIp","requestTime":"$context.requestTime","httpMethod":"$context.httpMethod","routeKey":"$context.routeKey","status":"$context.status","protocol":"$context.protocol","responseLength":"$context.responseLength"}`),
			},
			Tags: commonTags,
		})
		if err != nil {
			return err
		}

		// ========================================
		// Systems Manager Parameters
		// ========================================
		_, err = ssm.NewParameter(ctx, fmt.Sprintf("usecase-hub-api-endpoint-%s", stage), &ssm.ParameterArgs{
			Name:  pulumi.String(fmt.Sprintf("/usecase-hub/%s/api-endpoint", stage)),
			Type:  pulumi.String("String"),
			Value: httpApi.ApiEndpoint,
			Tags:  commonTags,
		})
		if err != nil {
			return err
		}

		// ========================================
		// CloudWatch Dashboard
		// ========================================
		_, err = cloudwatch.NewDashboard(ctx, fmt.Sprintf("usecase-hub-operations-%s", stage), &cloudwatch.DashboardArgs{
			DashboardName: pulumi.String(fmt.Sprintf("usecase-hub-operations-%s", stage)),
			DashboardBody: pulumi.String(fmt.Sprintf(`{
				"widgets": [
					{
						"type": "metric",
						"x": 0, "y": 0, "width": 12, "height": 6,
						"properties": {
							"title": "Use Case Config Lookups",
							"metrics": [
								["%[1]s", "GetUseCaseConfigCount"],
								["%[1]s", "GetUseCaseConfigError"]
							],
							"stat": "Sum",
							"period": 300
						}
					},
					{
						"type": "metric",
						"x": 12, "y": 0, "width": 12, "height": 6,
						"properties": {
							"title": "Model Info Lookups",
							"metrics": [
								["%[1]s", "GetModelInfoCount"],
								["%[1]s", "GetModelInfoError"]
							],
							"stat": "Sum",
							"period": 300
						}
					},
					{
						"type": "metric",
						"x": 0, "y": 6, "width": 12, "height": 6,
						"properties": {
							"title": "Feedback Submissions",
							"metrics": [
								["%[1]s", "SubmitFeedbackCount"],
								["%[1]s", "SubmitFeedbackError"]
							],
							"stat": "Sum",
							"period": 300
						}
					},
					{
						"type": "metric",
						"x": 12, "y": 6, "width": 12, "height": 6,
						"properties": {
							"title": "Prompt Previews",
							"metrics": [
								["%[1]s", "PromptPreviewCount"],
								["%[1]s", "PromptPreviewError"]
							],
							"stat": "Sum",
							"period": 300
						}
					}
				]
			}`, metricsNamespace)),
		})
		if err != nil {
			return err
		}

		// ========================================
		// CloudWatch Alarms
		// ========================================

		// Details Lambda Error Alarm
		_, err = cloudwatch.NewMetricAlarm(ctx, fmt.Sprintf("usecase-hub-details-errors-%s", stage), &cloudwatch.MetricAlarmArgs{
			Name:               pulumi.String(fmt.Sprintf("usecase-hub-details-errors-%s", stage)),
			ComparisonOperator: pulumi.String("GreaterThanThreshold"),
			EvaluationPeriods:  pulumi.Int(2),
			MetricName:         pulumi.String("Errors"),
			Namespace:          pulumi.String("AWS/Lambda"),
			Period:             pulumi.Int(300),
			Statistic:          pulumi.String("Sum"),
			Threshold:          pulumi.Float64(5),
			AlarmDescription:   pulumi.String("Alert when the use case details Lambda has errors"),
			Dimensions: pulumi.StringMap{
				"FunctionName": detailsLambda.Name,
			},
			Tags: commonTags,
		})
		if err != nil {
			return err
		}

		// ========================================
		// Stack Outputs
		// ========================================

		// DynamoDB
		ctx.Export("llmConfigTableName", llmConfigTable.Name)
		ctx.Export("llmConfigTableArn", llmConfigTable.Arn)
		ctx.Export("modelInfoTableName", modelInfoTable.Name)
		ctx.Export("modelInfoTableArn", modelInfoTable.Arn)

		// Feedback pipeline
		ctx.Export("feedbackBucket", feedbackBucket.ID())
		ctx.Export("feedbackTopicArn", feedbackTopic.Arn)
		ctx.Export("feedbackArchiveQueueUrl", feedbackArchiveQueue.Url)
		ctx.Export("feedbackArchiveDlqUrl", feedbackArchiveDlq.Url)

		// Cognito
		ctx.Export("userPoolId", userPool.ID())
		ctx.Export("userPoolClientId", userPoolClient.ID())

		// Lambda Functions
		ctx.Export("detailsLambdaArn", detailsLambda.Arn)
		ctx.Export("modelInfoLambdaArn", modelInfoLambda.Arn)
		ctx.Export("feedbackLambdaArn", feedbackLambda.Arn)
		ctx.Export("previewLambdaArn", previewLambda.Arn)

		// API Gateway
		ctx.Export("apiGatewayId", httpApi.ID())
		ctx.Export("apiGatewayEndpoint", httpApi.ApiEndpoint)

		return nil
	})
}
