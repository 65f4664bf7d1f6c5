// Package geom 提供骑行世界的空间模型
//
// 包含二维/三维向量运算、轴对齐矩形，以及把"纬度"（沿环形道路的角度坐标）
// 映射到三维世界坐标的纯函数。
//
// # 坐标系统
//
//   - **世界坐标**：三维，x 为道路横向偏移，地球是绕 x 轴的圆柱，半径 R
//   - **UI 平面**：二维，原点在屏幕中心，y 轴向上，单位为世界单位
//   - **屏幕坐标**：像素，原点在左上角，y 轴向下（Ebitengine 约定）
package geom

import "math"

// Vec2 二维向量
type Vec2 struct {
	X, Y float64
}

// V2 构造二维向量
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

// Len 返回向量长度
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Rotate 逆时针旋转 angle 弧度
func (v Vec2) Rotate(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Extend 以 z 分量扩展为三维向量
func (v Vec2) Extend(z float64) Vec3 {
	return Vec3{v.X, v.Y, z}
}

// Vec3 三维向量
type Vec3 struct {
	X, Y, Z float64
}

// V3 构造三维向量
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

// Dot 点积
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross 叉积
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Len 返回向量长度
func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize 返回单位向量；零向量返回零向量
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// XY 丢弃 z 分量
func (v Vec3) XY() Vec2 {
	return Vec2{v.X, v.Y}
}

// RotateX 绕 x 轴旋转 angle 弧度
func (v Vec3) RotateX(angle float64) Vec3 {
	sin, cos := math.Sincos(angle)
	return Vec3{
		X: v.X,
		Y: v.Y*cos - v.Z*sin,
		Z: v.Y*sin + v.Z*cos,
	}
}

// Aabb2 二维轴对齐矩形
type Aabb2 struct {
	Min, Max Vec2
}

// PointBox 以点为中心、半边长为 r 的正方形
func PointBox(center Vec2, r float64) Aabb2 {
	return Aabb2{
		Min: Vec2{center.X - r, center.Y - r},
		Max: Vec2{center.X + r, center.Y + r},
	}
}

// Expand 四个方向各扩展 margin
func (b Aabb2) Expand(margin float64) Aabb2 {
	return Aabb2{
		Min: Vec2{b.Min.X - margin, b.Min.Y - margin},
		Max: Vec2{b.Max.X + margin, b.Max.Y + margin},
	}
}

// Contains 判断点是否在矩形内（含边界）
func (b Aabb2) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Center 矩形中心
func (b Aabb2) Center() Vec2 {
	return Vec2{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// Signum 返回 x 的符号：-1、0 或 1
func Signum(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
