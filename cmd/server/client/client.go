// Package client provides test commands for the perception gRPC service
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-perception/internal/handlers/perception/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration

	// Session flags shared by most commands
	sceneID string
	userID  string
)

// ClientCmd is the root command for all client test commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Test client commands for the perception service",
	Long:  `Client commands allow you to exercise a running perception server with real gRPC requests.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	ClientCmd.PersistentFlags().StringVar(&sceneID, "scene-id", "", "Scene id")
	ClientCmd.PersistentFlags().StringVar(&userID, "user", "", "User id")

	ClientCmd.AddCommand(loadSceneCmd)
	ClientCmd.AddCommand(unloadSceneCmd)
	ClientCmd.AddCommand(tickCmd)
	ClientCmd.AddCommand(doorCmd)
	ClientCmd.AddCommand(polygonCmd)
	ClientCmd.AddCommand(visibilityCmd)
	ClientCmd.AddCommand(hearCmd)
	ClientCmd.AddCommand(resetFogCmd)
	ClientCmd.AddCommand(saveFogCmd)
}

// createClient creates a perception service client
func createClient() (*v1alpha1.PerceptionServiceClient, func(), error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}
	return v1alpha1.NewPerceptionServiceClient(conn), cleanup, nil
}

// call encodes req, invokes method and prints the response
func call(method string, req any) error {
	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	in, err := v1alpha1.Encode(req)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.Call(ctx, method, in)
	if err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}
	return printStruct(resp)
}

// exec encodes req and invokes a method with an empty response
func exec(method string, req any) error {
	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	in, err := v1alpha1.Encode(req)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Exec(ctx, method, in); err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}
	fmt.Printf("%s ok\n", method)
	return nil
}

func printStruct(s *structpb.Struct) error {
	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func session() v1alpha1.SessionRequest {
	return v1alpha1.SessionRequest{SceneID: sceneID, UserID: userID}
}
