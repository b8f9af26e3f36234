// 演示数据初始化脚本
//
// 建一个演示讲师账号和一门带模块/前置课时结构的示例课程，
// 用于本地联调和前端开发环境。
//
// 用法: go run scripts/seed_demo.go

package main

import (
	"log"
	"os"

	"course_hub_backend/internal/config"
	"course_hub_backend/internal/model"
	"course_hub_backend/pkg/database"
	"course_hub_backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	var count int64
	db.Model(&model.User{}).Where("email = ?", "instructor@demo.local").Count(&count)
	if count > 0 {
		log.Println("演示数据已存在，跳过")
		return
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	instructor := &model.User{
		Name:     "Demo Instructor",
		Email:    "instructor@demo.local",
		Password: string(hashed),
		Role:     model.Instructor,
	}
	if err := db.Create(instructor).Error; err != nil {
		log.Fatalf("创建讲师失败: %v", err)
	}

	course := &model.Course{
		Title:        "Go 入门",
		Description:  "示例课程",
		Price:        99.9,
		IsActive:     true,
		InstructorID: instructor.ID,
	}
	if err := db.Create(course).Error; err != nil {
		log.Fatalf("创建课程失败: %v", err)
	}

	module := &model.Lesson{
		Title:      "第一章 基础",
		LessonType: model.LessonModule,
		Order:      1,
		CourseID:   course.ID,
	}
	db.Create(module)

	intro := &model.Lesson{
		Title:      "环境搭建",
		LessonType: model.LessonVideo,
		Order:      1,
		CourseID:   course.ID,
		ParentID:   &module.ID,
	}
	db.Create(intro)

	db.Create(&model.Lesson{
		Title:          "第一个程序",
		LessonType:     model.LessonVideo,
		Order:          2,
		CourseID:       course.ID,
		ParentID:       &module.ID,
		PrerequisiteID: &intro.ID,
	})

	log.Println("演示数据初始化完成")
}
