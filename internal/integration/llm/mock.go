package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/futig/wrapgen/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockPNG is a 1x1 transparent PNG, base64 encoded
const MockPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// MockConnector answers generation calls without network access
type MockConnector struct{}

func NewMockConnector() *MockConnector {
	return &MockConnector{}
}

// GenerateText returns a fenced nine-field project payload
func (m *MockConnector) GenerateText(ctx context.Context, spec *entity.GenerationRequestSpec) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating text via LLM", zap.String("model", spec.Model))

	project := entity.ProjectDescriptor{
		Name:            "Mock Web App",
		ShortName:       "MockApp",
		Description:     "A WebView wrapper generated without calling the generation service.",
		PackageName:     "com.example.mockapp",
		ThemeColor:      "#1E88E5",
		BackgroundColor: "#FFFFFF",
		MainActivity:    mockMainActivity,
		ManifestXML:     mockManifest,
		BuildGradle:     mockBuildGradle,
	}

	payload, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal mock project: %w", err)
	}

	result := "```json\n" + string(payload) + "\n```"
	ctxzap.Info(ctx, "[MOCK] text generated", zap.Int("result_length", len(result)))
	return result, nil
}

// GenerateImage returns a tiny PNG
func (m *MockConnector) GenerateImage(ctx context.Context, spec *entity.GenerationRequestSpec) (*entity.GeneratedImage, error) {
	ctxzap.Info(ctx, "[MOCK] generating image via LLM", zap.String("aspect_ratio", spec.AspectRatio))

	return &entity.GeneratedImage{
		Data:     MockPNG,
		MimeType: "image/png",
	}, nil
}

var mockMainActivity = strings.TrimSpace(`
package com.example.mockapp

import android.os.Bundle
import android.webkit.WebView
import android.webkit.WebViewClient
import androidx.appcompat.app.AppCompatActivity

class MainActivity : AppCompatActivity() {
    override fun onCreate(savedInstanceState: Bundle?) {
        super.onCreate(savedInstanceState)
        val webView = WebView(this)
        webView.settings.javaScriptEnabled = true
        webView.webViewClient = WebViewClient()
        webView.loadUrl("https://example.com")
        setContentView(webView)
    }
}
`)

var mockManifest = strings.TrimSpace(`
<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android">
    <uses-permission android:name="android.permission.INTERNET" />
    <application android:label="MockApp" android:icon="@mipmap/ic_launcher">
        <activity android:name=".MainActivity" android:exported="true">
            <intent-filter>
                <action android:name="android.intent.action.MAIN" />
                <category android:name="android.intent.category.LAUNCHER" />
            </intent-filter>
        </activity>
    </application>
</manifest>
`)

var mockBuildGradle = strings.TrimSpace(`
plugins {
    id 'com.android.application'
    id 'org.jetbrains.kotlin.android'
}

android {
    namespace 'com.example.mockapp'
    compileSdk 34
    defaultConfig {
        applicationId "com.example.mockapp"
        minSdk 24
        targetSdk 34
        versionCode 1
        versionName "1.0"
    }
}

dependencies {
    implementation 'androidx.appcompat:appcompat:1.7.0'
}
`)
