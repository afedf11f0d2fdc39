package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/knackwurst/kokorod/internal/voices"
)

// New builds the MCP server with all seven tools registered. The caller
// serves it over stdio; logs must go to stderr because stdout carries the
// JSON-RPC transport.
func New(svc *Service, version string) *server.MCPServer {
	s := server.NewMCPServer("kokoro-tts", version)

	speak := mcp.NewTool("speak",
		mcp.WithDescription("Speak text aloud. Returns immediately while audio plays in background."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to speak.")),
		mcp.WithString("voice", mcp.Description("Voice name (e.g. af_heart, bm_fable)."), mcp.DefaultString(voices.Default)),
		mcp.WithNumber("speed", mcp.Description("Speed multiplier."), mcp.DefaultNumber(1.0)),
	)
	s.AddTool(speak, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		msg, err := svc.Speak(ctx, text, req.GetString("voice", voices.Default), req.GetFloat("speed", 1.0))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(msg), nil
	})

	pause := mcp.NewTool("pause",
		mcp.WithDescription("Pause current audio playback."),
	)
	s.AddTool(pause, func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		msg, err := svc.Pause()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(msg), nil
	})

	resume := mcp.NewTool("resume",
		mcp.WithDescription("Resume paused audio playback."),
	)
	s.AddTool(resume, func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		msg, err := svc.Resume()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(msg), nil
	})

	stop := mcp.NewTool("stop",
		mcp.WithDescription("Stop any currently-playing audio immediately."),
	)
	s.AddTool(stop, func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		msg, err := svc.Stop()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(msg), nil
	})

	status := mcp.NewTool("status",
		mcp.WithDescription("Return current playback state: idle, playing, or paused."),
	)
	s.AddTool(status, func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(svc.Status()), nil
	})

	save := mcp.NewTool("speak_and_save",
		mcp.WithDescription("Generate speech and save to a file. Blocks until the file is written."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to speak.")),
		mcp.WithString("output_path", mcp.Description("Where to save the file."), mcp.DefaultString(DefaultSavePath)),
		mcp.WithString("voice", mcp.Description("Voice name."), mcp.DefaultString(voices.Default)),
		mcp.WithNumber("speed", mcp.Description("Speed multiplier."), mcp.DefaultNumber(1.0)),
		mcp.WithBoolean("mp3", mcp.Description("Save as MP3 (requires ffmpeg)."), mcp.DefaultBool(false)),
	)
	s.AddTool(save, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		msg, err := svc.SpeakAndSave(ctx,
			text,
			req.GetString("output_path", DefaultSavePath),
			req.GetString("voice", voices.Default),
			req.GetFloat("speed", 1.0),
			req.GetBool("mp3", false),
		)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(msg), nil
	})

	list := mcp.NewTool("list_voices",
		mcp.WithDescription("List all available Kokoro voices, grouped by accent and gender."),
	)
	s.AddTool(list, func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := json.MarshalIndent(svc.ListVoices(), "", "  ")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	})

	return s
}

// Serve runs the tool surface on stdin/stdout until the client disconnects.
func Serve(svc *Service, version string) error {
	return server.ServeStdio(New(svc, version))
}
