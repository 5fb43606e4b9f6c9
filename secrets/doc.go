// Package secrets resolves deploy credentials stored in AWS Secrets Manager.
//
// A reference names a secret by id or ARN, optionally followed by "#field"
// to select one string field of a JSON secret:
//
//	deployweb/git-token
//	arn:aws:secretsmanager:us-east-1:123456789012:secret:deployweb-abc#token
//
// Secret values are never logged; only the secret id is.
//
// # Usage
//
//	client, err := secrets.NewClient(ctx, secrets.WithRegion("us-east-1"))
//	if err != nil {
//	    return err
//	}
//	token, err := client.Value(ctx, "deployweb/git#token")
package secrets
